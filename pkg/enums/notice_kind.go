package enums

import "fmt"

// NoticeKind styles a transient cart confirmation.
type NoticeKind string

const (
	NoticeKindDefault NoticeKind = "default"
	NoticeKindAdd     NoticeKind = "add"
	NoticeKindRemove  NoticeKind = "remove"
)

var validNoticeKinds = []NoticeKind{
	NoticeKindDefault,
	NoticeKindAdd,
	NoticeKindRemove,
}

// String implements fmt.Stringer.
func (k NoticeKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known NoticeKind.
func (k NoticeKind) IsValid() bool {
	for _, candidate := range validNoticeKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseNoticeKind converts raw input into a NoticeKind.
func ParseNoticeKind(value string) (NoticeKind, error) {
	for _, candidate := range validNoticeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notice kind %q", value)
}
