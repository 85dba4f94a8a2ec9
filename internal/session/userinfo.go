// ABOUTME: User profile record stored alongside the session token
// ABOUTME: Tolerates numeric ids and preserves unknown fields across round trips

package session

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// UserInfo is the profile persisted under the userInfo key
type UserInfo struct {
	Username string
	Name     string
	UserID   string
	Role     Role
	Extra    map[string]interface{}
}

func (u UserInfo) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(u.Extra)+4)
	for k, v := range u.Extra {
		out[k] = v
	}
	setIfNotEmpty(out, "username", u.Username)
	setIfNotEmpty(out, "name", u.Name)
	setIfNotEmpty(out, "user_id", u.UserID)
	setIfNotEmpty(out, "role", string(u.Role))
	return json.Marshal(out)
}

func (u *UserInfo) UnmarshalJSON(data []byte) error {
	info, err := parseUserInfo(string(data))
	if err != nil {
		return err
	}
	*u = *info
	return nil
}

func setIfNotEmpty(m map[string]interface{}, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// parseUserInfo decodes a JSON object into UserInfo
func parseUserInfo(raw string) (*UserInfo, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("user info is not an object")
	}

	info := &UserInfo{Extra: map[string]interface{}{}}
	for k, v := range fields {
		switch k {
		case "username":
			info.Username = stringify(v)
		case "name":
			info.Name = stringify(v)
		case "user_id":
			info.UserID = stringify(v)
		case "role":
			info.Role = Role(stringify(v))
		default:
			info.Extra[k] = v
		}
	}
	return info, nil
}

// stringify renders scalar JSON values; ids arrive as numbers from the backend
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
