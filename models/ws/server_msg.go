package wsmodels

type ServerMessage struct {
	ToUserID       string `json:"-"`
	NotificationID string `json:"notification_id"`
	Time           string `json:"time"` // event time
	Code           string `json:"code"` // notification code
	Title          string `json:"title"`
	Msg            string `json:"msg"`
}

type ClientAction string

const (
	ClientActionRead    ClientAction = "read"
	ClientActionReadAll ClientAction = "read_all"
)

// ClientMessage is sent by the dashboard over the notifications socket
type ClientMessage struct {
	Action         ClientAction `json:"action"`
	NotificationID string       `json:"notification_id"`
}
