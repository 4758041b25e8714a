// Package toolproto implements the tagged tool-call protocol spoken between
// the agent and generative providers: a reply either carries a <final> tag
// with user-facing text or a <tool> tag with a JSON invocation.
package toolproto

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/infohub-br/promoagent/internal/common"
)

var (
	toolTagRe  = regexp.MustCompile(`(?s)<tool>(.*?)</tool>`)
	finalTagRe = regexp.MustCompile(`(?s)<final>(.*?)</final>`)
)

// Call is a parsed tool invocation.
type Call struct {
	Name string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

// Reply is one parsed provider turn: either a final user-facing text or a
// tool call, never both.
type Reply struct {
	Final string
	Call  *Call
}

// ParseReply interprets one provider reply. A <final> tag wins over a <tool>
// tag; with neither tag present the whole text is treated as final, since
// models routinely forget the tags on plain answers.
func ParseReply(text string) (Reply, error) {
	if m := finalTagRe.FindStringSubmatch(text); m != nil {
		return Reply{Final: strings.TrimSpace(m[1])}, nil
	}

	if m := toolTagRe.FindStringSubmatch(text); m != nil {
		var call Call
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &call); err != nil {
			return Reply{}, fmt.Errorf("%w: %v", common.ErrMalformedToolCall, err)
		}
		if call.Name == "" {
			return Reply{}, fmt.Errorf("%w: missing tool name", common.ErrMalformedToolCall)
		}
		return Reply{Call: &call}, nil
	}

	return Reply{Final: strings.TrimSpace(text)}, nil
}
