package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/lockstation/internal/domain"
)

type call struct {
	op  string
	arg string
	key string
}

type fakeCommander struct {
	calls   []call
	sendErr error
	codes   int
	lines   chan domain.Response
	done    chan struct{}
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{
		lines: make(chan domain.Response, 8),
		done:  make(chan struct{}),
	}
}

func (f *fakeCommander) SendMessage(slot, key string) error {
	f.calls = append(f.calls, call{op: "message", arg: slot, key: key})
	if key == "" {
		return domain.ErrEmptyKey
	}
	return f.sendErr
}

func (f *fakeCommander) SendManual(cmd string) error {
	f.calls = append(f.calls, call{op: "manual", arg: cmd})
	if cmd == "" {
		return domain.ErrEmptyCommand
	}
	return f.sendErr
}

func (f *fakeCommander) SendRollingCode(deviceID string) (string, error) {
	f.calls = append(f.calls, call{op: "code", arg: deviceID})
	f.codes++
	return fmt.Sprintf("AT+SEND=0,100,%s,%d", deviceID, f.codes), f.sendErr
}

func (f *fakeCommander) Lines() <-chan domain.Response { return f.lines }
func (f *fakeCommander) Done() <-chan struct{}         { return f.done }
func (f *fakeCommander) Slots() []string               { return []string{"EXX", "EYX", "EZX"} }

func run(t *testing.T, f *fakeCommander, input string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(f, strings.NewReader(input), &out, nil)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestConsole_Commands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []call
	}{
		{
			name:  "slot with key",
			input: "key ABC12345\nsend exx\n",
			want:  []call{{op: "message", arg: "exx", key: "ABC12345"}},
		},
		{
			name:  "key cleared",
			input: "key ABC\nkey\nsend EYX\n",
			want:  []call{{op: "message", arg: "EYX", key: ""}},
		},
		{
			name:  "rolling code",
			input: "code 7\ncode 7\n",
			want:  []call{{op: "code", arg: "7"}, {op: "code", arg: "7"}},
		},
		{
			name:  "manual verbs",
			input: "at AT+VER?\nraw AT+RESET\n",
			want:  []call{{op: "manual", arg: "AT+VER?"}, {op: "manual", arg: "AT+RESET"}},
		},
		{
			name:  "bare AT line",
			input: "AT+SEND=0,5,EXX-K\n",
			want:  []call{{op: "manual", arg: "AT+SEND=0,5,EXX-K"}},
		},
		{
			name:  "bare AT ping",
			input: "AT\n",
			want:  []call{{op: "manual", arg: "AT"}},
		},
		{
			name:  "AT with a space is sent whole",
			input: "AT +CSQ\n",
			want:  []call{{op: "manual", arg: "AT +CSQ"}},
		},
		{
			name:  "AT line keeps its spacing",
			input: "AT+SEND=0,1,X \n",
			want:  []call{{op: "manual", arg: "AT+SEND=0,1,X "}},
		},
		{
			name:  "raw verb keeps trailing text",
			input: "raw AT+NAME=a b\n",
			want:  []call{{op: "manual", arg: "AT+NAME=a b"}},
		},
		{
			name:  "quit stops processing",
			input: "code 1\nquit\ncode 2\n",
			want:  []call{{op: "code", arg: "1"}},
		},
		{
			name:  "blank and unknown lines ignored",
			input: "\n   \nfrobnicate\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeCommander()
			run(t, f, tt.input)
			if fmt.Sprint(f.calls) != fmt.Sprint(tt.want) {
				t.Errorf("calls = %v, want %v", f.calls, tt.want)
			}
		})
	}
}

func TestConsole_ErrorsArePrinted(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		sendErr error
		want    string
	}{
		{name: "empty key", input: "send EXX\n", want: "[ERROR] - " + domain.ErrEmptyKey.Error()},
		{name: "empty manual", input: "at\n", want: "[ERROR] - " + domain.ErrEmptyCommand.Error()},
		{name: "write failure", input: "code 7\n", sendErr: errors.New("device gone"), want: "[ERROR] - device gone"},
		{name: "missing slot", input: "send\n", want: "[ERROR] - usage: send <EXX|EYX|EZX>"},
		{name: "unknown", input: "hello\n", want: `[ERROR] - unknown command "hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeCommander()
			f.sendErr = tt.sendErr
			out := run(t, f, tt.input)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestConsole_CodeEchoesCommand(t *testing.T) {
	out := run(t, newFakeCommander(), "code lock-1\n")
	if !strings.Contains(out, "sent AT+SEND=0,100,lock-1,1") {
		t.Errorf("output %q missing sent command", out)
	}
}

func TestConsole_DisplaysReceivedLines(t *testing.T) {
	f := newFakeCommander()
	f.lines <- domain.Response{Text: "OK", ReceivedAt: time.Now()}
	f.lines <- domain.Response{Text: "[DEVICE] /dev/ttyUSB0 removed", ReceivedAt: time.Now()}
	close(f.done)

	// Input never arrives; Run ends because the station is done.
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	if err := New(f, pr, &out, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	okAt := strings.Index(got, "OK\n")
	devAt := strings.Index(got, "[DEVICE] /dev/ttyUSB0 removed\n")
	if okAt < 0 || devAt < 0 || okAt > devAt {
		t.Errorf("output %q does not show both lines in order", got)
	}
}

func TestConsole_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- New(newFakeCommander(), pr, io.Discard, nil).Run(ctx)
	}()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestConsole_InputError(t *testing.T) {
	err := New(newFakeCommander(), failingReader{}, io.Discard, nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "tty gone") {
		t.Errorf("Run() error = %v, want input error", err)
	}
}
