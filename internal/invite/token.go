// Package invite issues and resolves the tokens friends use to join a group,
// and builds the share links handed to the messaging apps.
package invite

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

// ErrTokenNotFound is returned for tokens that do not resolve to a group.
var ErrTokenNotFound = errors.New("invalid or expired invite")

const (
	separator = "_"
	sliceLen  = 8
)

// Issue returns the invite token of a group. The token embeds the group id
// and a short slice of the leader's payment authority, so it resolves without
// a lookup table. The same group always yields the same token.
func Issue(group *models.Group) (string, error) {
	if _, err := uuid.Parse(group.ID); err != nil {
		return "", errors.New("group id must be a UUID")
	}
	return group.ID + separator + authoritySlice(group), nil
}

// Resolve returns the group id and authority slice embedded in a token.
// Resolution does not depend on the group being open.
func Resolve(token string) (groupID, slice string, err error) {
	i := strings.LastIndex(token, separator)
	if i <= 0 || i == len(token)-1 {
		return "", "", ErrTokenNotFound
	}
	id, err := uuid.Parse(token[:i])
	if err != nil {
		return "", "", ErrTokenNotFound
	}
	slice = token[i+1:]
	if len(slice) > sliceLen || !isAlnum(slice) {
		return "", "", ErrTokenNotFound
	}
	return id.String(), slice, nil
}

// Matches reports whether a resolved slice belongs to the group.
func Matches(group *models.Group, slice string) bool {
	return authoritySlice(group) == slice
}

// authoritySlice takes the trailing alphanumerics of the payment authority,
// where gateways put the unique part. Groups created without an authority
// fall back to the leader participant id.
func authoritySlice(group *models.Group) string {
	source := alnum(group.PaymentAuthority)
	if source == "" {
		for _, p := range group.Participants {
			if p.Role == models.RoleLeader {
				source = alnum(p.ID)
				break
			}
		}
	}
	if source == "" {
		source = alnum(group.ID)
	}
	if len(source) > sliceLen {
		source = source[len(source)-sliceLen:]
	}
	return source
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlnumRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !isAlnumRune(r) {
			return false
		}
	}
	return true
}

func isAlnumRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
