package rbac

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"schoolconnect-backend/models"
)

type Provider interface {
	// GetRuleFunc found is false when no rule covers the route
	GetRuleFunc(method, path string) (models.RbacFunc, bool)
	RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

func NewHandler() {
	i := newImpl()
	i.initRules()
	Instance = i
}

func newImpl() *impl {
	return &impl{
		rules:       map[HTTPMethod]*PathRule{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}
}

type impl struct {
	rules       map[HTTPMethod]*PathRule
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

func (i *impl) GetRuleFunc(method, path string) (models.RbacFunc, bool) {
	pathRule, exists := i.rules[HTTPMethod(strings.ToUpper(method))]
	if !exists {
		return nil, false
	}
	return pathRule.find(normalizePath(path))
}

func (i *impl) RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error {
	path, method, err := parseSwaggerPattern(swaggerPattern)
	if err != nil {
		return err
	}
	// permission map for the dashboards
	for _, role := range roles {
		if _, ok := i.permissions[role]; !ok {
			i.permissions[role] = map[models.Module][]models.Permission{}
		}
		permissions := i.permissions[role][module]
		if slices.Contains(permissions, permission) {
			continue
		}
		i.permissions[role][module] = append(permissions, permission)
	}

	pathRule, exists := i.rules[method]
	if !exists {
		pathRule = &PathRule{Exact: map[string]models.RbacFunc{}}
		i.rules[method] = pathRule
	}
	if handler == nil {
		handler = AllowByRoleFunc(roles)
	}
	if isExactPath(path) {
		pathRule.Exact[path] = handler
		return nil
	}
	pattern, err := pathToRegex(path)
	if err != nil {
		return errors.Wrapf(err, "rule pattern compile failed (%v)", swaggerPattern)
	}
	pathRule.Patterns = append(pathRule.Patterns, PatternRule{
		Pattern: pattern,
		Handler: handler,
	})
	return nil
}

func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	result := map[models.Module][]models.Permission{}
	for module, permissions := range i.permissions[role] {
		result[module] = slices.Clone(permissions)
	}
	return result
}

func (r *PathRule) find(path string) (models.RbacFunc, bool) {
	if handler, exists := r.Exact[path]; exists {
		return handler, true
	}
	for _, patternRule := range r.Patterns {
		if patternRule.Pattern.MatchString(path) {
			return patternRule.Handler, true
		}
	}
	return nil, false
}

func isExactPath(path string) bool {
	return !strings.Contains(path, "{")
}

var paramRegex = regexp.MustCompile(`\\\{[^}]+?\\\}`)

// pathToRegex "/jobs/{id}/pdf" -> "^/jobs/([^/]+)/pdf$"
func pathToRegex(path string) (*regexp.Regexp, error) {
	pattern := paramRegex.ReplaceAllString(regexp.QuoteMeta(path), `([^/]+)`)
	return regexp.Compile("^" + pattern + "$")
}

func AllowFunc() models.RbacFunc {
	return func(userID string, role models.UserRole, path string) bool {
		return true
	}
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	allowMap := map[models.UserRole]bool{}
	for _, role := range accessRoles {
		allowMap[role] = true
	}
	return func(userID string, role models.UserRole, path string) bool {
		return allowMap[role]
	}
}

// parseSwaggerPattern "/api/v1/jobs/list [post]" -> path, method
func parseSwaggerPattern(pattern string) (path string, method HTTPMethod, err error) {
	pattern = strings.TrimSpace(pattern)
	bracketStart := strings.LastIndex(pattern, "[")
	bracketEnd := strings.LastIndex(pattern, "]")
	if bracketStart == -1 || bracketEnd < bracketStart {
		return "", "", errors.Errorf("method not provided for pattern (%v)", pattern)
	}
	path = normalizePath(strings.TrimSpace(pattern[:bracketStart]))
	method = HTTPMethod(strings.ToUpper(strings.TrimSpace(pattern[bracketStart+1 : bracketEnd])))
	if method == "" {
		return "", "", errors.Errorf("method not provided for pattern (%v)", pattern)
	}
	return path, method, nil
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
