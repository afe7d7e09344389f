package completion

import "context"

// EchoClient answers with the content of the last user turn. It needs no
// model and is meant for local development and demos.
type EchoClient struct{}

var _ Client = EchoClient{}

func (EchoClient) String() string { return "echo" }

func (EchoClient) Complete(_ context.Context, turns []Turn) (string, error) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return "You said: " + turns[i].Content, nil
		}
	}
	return "", nil
}
