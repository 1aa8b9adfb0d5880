package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/go-playground/validator/v10" // request payload validation
    "github.com/labstack/echo/v4"            // echo defines request context types
)

// Validate is the shared validator instance used to check request DTOs
// before they reach the repositories.
var Validate = validator.New()

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id") // fetch user_id from context
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64: // JWT claims decode numbers as float64
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// currentRole returns the role claim stored by the JWT middleware, or an
// empty string when missing.
func currentRole(c echo.Context) string {
    if role, ok := c.Get("role").(string); ok {
        return role
    }
    return ""
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
