package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-dungeon/internal/protocol"
)

var templateFuncs = sprig.TxtFuncMap()

const roomTemplate = `{{ .RoomName }}
{{ wrap 80 .Description }}
Exits: {{ if .ExitList }}{{ join ", " .ExitList }}{{ else }}none{{ end }}
{{- range .Doors }}
The {{ .Name }} to the {{ .Direction }} is {{ .State }}.
{{- end }}
{{- with .WarpStone }}
A warp stone is here. {{ .Description }} It leads to {{ .Destination }}.
{{- end }}
{{- range .Mobs }}
{{ .Name }} [{{ .Id }}] is here ({{ .HP }}/{{ .MaxHP }} HP).
{{- end }}
{{- range .Loot }}
{{ .Name | title }} [{{ .Id }}] lies on the ground.
{{- end }}
{{- if .Others }}
Also here: {{ join ", " .Others }}
{{- end }}`

const promptTemplate = `[{{ .HP }}/{{ .MaxHP }}HP {{ .Gold }}g] > `

var (
	roomTmpl   = template.Must(template.New("room").Funcs(templateFuncs).Parse(roomTemplate))
	promptTmpl = template.Must(template.New("prompt").Funcs(templateFuncs).Parse(promptTemplate))
)

type roomData struct {
	*protocol.RoomState

	ExitList []string
	Others   []string
}

// Expand renders a template string against data with the sprig functions.
func Expand(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	return execute(tmpl, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// Render turns an outbound frame into console text. For room_state frames the
// decoded state is returned as well.
func Render(env protocol.Envelope) (string, *protocol.RoomState, error) {
	switch env.Event {
	case protocol.EventConnected:
		var m protocol.Connected
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return "", nil, fmt.Errorf("decoding %s: %w", env.Event, err)
		}
		return m.Message, nil, nil

	case protocol.EventSystemMessage:
		var m protocol.SystemMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return "", nil, fmt.Errorf("decoding %s: %w", env.Event, err)
		}
		return m.Text, nil, nil

	case protocol.EventChatMessage:
		var m protocol.ChatMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return "", nil, fmt.Errorf("decoding %s: %w", env.Event, err)
		}
		return fmt.Sprintf("%s says, \"%s\"", m.From, m.Text), nil, nil

	case protocol.EventRoomState:
		var st protocol.RoomState
		if err := json.Unmarshal(env.Data, &st); err != nil {
			return "", nil, fmt.Errorf("decoding %s: %w", env.Event, err)
		}
		text, err := Room(&st)
		if err != nil {
			return "", nil, err
		}
		return text, &st, nil
	}

	return "", nil, fmt.Errorf("unknown event %q", env.Event)
}

// Room describes a room as its viewer sees it.
func Room(st *protocol.RoomState) (string, error) {
	data := roomData{RoomState: st}

	for dir, ex := range st.Exits {
		if ex.Available {
			data.ExitList = append(data.ExitList, dir)
		}
	}
	slices.Sort(data.ExitList)

	for _, p := range st.Players {
		if p.Id != st.Character.Id {
			data.Others = append(data.Others, p.Name)
		}
	}

	return execute(roomTmpl, data)
}

// Prompt is the status line shown before player input.
func Prompt(cv *protocol.CharacterView) string {
	if cv == nil {
		return "> "
	}
	s, err := execute(promptTmpl, cv)
	if err != nil {
		return "> "
	}
	return s
}
