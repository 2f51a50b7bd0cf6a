package action

import "slices"

// Message is a system message produced by an action. A message with To set
// goes to that character only; otherwise it goes to everyone in Room except
// Exclude.
type Message struct {
	Room    string
	To      string
	Exclude string
	Text    string
}

// Result describes what a successful action changed.
type Result struct {
	// Rooms lists every room whose occupants need a fresh snapshot.
	Rooms    []string
	Messages []Message
}

func (r *Result) touch(rooms ...string) {
	for _, id := range rooms {
		if id != "" && !slices.Contains(r.Rooms, id) {
			r.Rooms = append(r.Rooms, id)
		}
	}
}

func (r *Result) toRoom(room, text string) {
	r.Messages = append(r.Messages, Message{Room: room, Text: text})
}

func (r *Result) toRoomExcept(room, exclude, text string) {
	r.Messages = append(r.Messages, Message{Room: room, Exclude: exclude, Text: text})
}

func (r *Result) toCharacter(charId, text string) {
	r.Messages = append(r.Messages, Message{To: charId, Text: text})
}
