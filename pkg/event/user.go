package event

import "strings"

// UnnamedUser is shown when neither the profile nor the auth metadata has a name.
const UnnamedUser = "Unnamed User"

// User is a public profile.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// DefaultAvatar returns the placeholder avatar for id.
func DefaultAvatar(id string) string {
	return "https://picsum.photos/seed/" + id + "/100"
}

// NewUser resolves name and avatar from the first non-empty candidate and
// falls back to the placeholders.
func NewUser(id string, names []string, avatars []string) User {
	u := User{ID: id, Name: UnnamedUser, AvatarURL: DefaultAvatar(id)}
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			u.Name = n
			break
		}
	}
	for _, a := range avatars {
		if strings.TrimSpace(a) != "" {
			u.AvatarURL = a
			break
		}
	}
	return u
}
