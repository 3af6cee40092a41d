package audio

import (
	"regexp"
	"strconv"
)

// subscribeRe matches `pactl subscribe` output, e.g.
//
//	Event 'change' on sink #56
var subscribeRe = regexp.MustCompile(`^Event '(new|change|remove)' on ([a-z-]+) #(\d+)$`)

// ParseSubscribeLine decodes one `pactl subscribe` line. Malformed lines
// and unknown actions are dropped.
func ParseSubscribeLine(line string) (Event, bool) {
	m := subscribeRe.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	index, err := strconv.Atoi(m[3])
	if err != nil {
		return Event{}, false
	}
	return Event{
		Action: Action(m[1]),
		Object: ObjectType(m[2]),
		Index:  index,
	}, true
}
