package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-sound.klederson.com/internal/arc"
)

type fakeDispatcher struct {
	commands []arc.Command
	names    []string
	cmdErr   error
	savePath string
	saveErr  error
}

func (f *fakeDispatcher) Command(_ context.Context, cmd arc.Command) error {
	f.commands = append(f.commands, cmd)
	return f.cmdErr
}

func (f *fakeDispatcher) Save(_ context.Context, name string) (string, error) {
	f.names = append(f.names, name)
	return f.savePath, f.saveErr
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestState(t *testing.T) {
	s := New(&fakeDispatcher{})
	s.Publish(Snapshot{
		State:  arc.State{SessionID: "abc", Phase: arc.PhaseMoving, CurrentAngle: 42},
		Volume: 0.5,
	})

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/state", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	state := body["state"].(map[string]any)
	assert.Equal(t, "abc", state["session_id"])
	assert.Equal(t, "moving", state["phase"])
	assert.Equal(t, 42.0, state["current_angle"])
	assert.Equal(t, 0.5, body["volume"])
}

func TestListCommands(t *testing.T) {
	s := New(&fakeDispatcher{})

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/commands", nil))
	require.NoError(t, err)

	var cmds []CommandInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cmds))
	require.Len(t, cmds, len(arc.Commands()))
	assert.Equal(t, "start", cmds[0].Name)
	for _, c := range cmds {
		assert.NotEmpty(t, c.Description, c.Name)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
		sent   bool
	}{
		{"start", "/api/commands/start", nil, 200, true},
		{"case insensitive", "/api/commands/NEXT", nil, 200, true},
		{"unknown", "/api/commands/explode", nil, 400, false},
		{"busy", "/api/commands/start", arc.ErrBusy, 409, true},
		{"no previous", "/api/commands/repeat", arc.ErrNoPreviousRun, 409, true},
		{"timeout", "/api/commands/plane", context.DeadlineExceeded, 503, true},
		{"other", "/api/commands/mode", errors.New("boom"), 500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{cmdErr: tt.err}
			s := New(d)

			resp, err := s.app.Test(httptest.NewRequest("POST", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.sent, len(d.commands) == 1)
		})
	}
}

func saveRequest(body string) *http.Request {
	req := httptest.NewRequest("POST", "/api/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSave(t *testing.T) {
	d := &fakeDispatcher{savePath: "out/trial.csv"}
	s := New(d)

	resp, err := s.app.Test(saveRequest(`{"name":"trial"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "out/trial.csv", decode(t, resp.Body)["path"])
	assert.Equal(t, []string{"trial"}, d.names)
}

func TestSave_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"empty", `{"name":""}`, nil, 400},
		{"blank", `{"name":"   "}`, nil, 400},
		{"bad json", `{`, nil, 400},
		{"separator", `{"name":"a/b"}`, arc.ErrInvalidName, 400},
		{"write failure", `{"name":"x"}`, &arc.IOError{Name: "x", Cause: errors.New("disk full")}, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeDispatcher{saveErr: tt.err})

			resp, err := s.app.Test(saveRequest(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, decode(t, resp.Body), "error")
		})
	}
}
