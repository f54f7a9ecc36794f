package parse

import (
	"errors"
	"testing"
)

func TestAddressRange(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name      string
		line      string
		wantStart uint32
		wantEnd   uint32
		wantOK    bool
	}{
		{
			name:      "restore confirmation",
			line:      "Restoring binary file x into memory (0x200b76a8 to 0x200c76a8)",
			wantStart: 0x200b76a8,
			wantEnd:   0x200c76a8,
			wantOK:    true,
		},
		{
			name:      "range only",
			line:      "(0x0 to 0xffffffff)",
			wantStart: 0,
			wantEnd:   0xffffffff,
			wantOK:    true,
		},
		{
			name:   "no pattern",
			line:   "Breakpoint 1 at 0x8000abc",
			wantOK: false,
		},
		{
			name:   "value exceeds 32 bits",
			line:   "(0x100000000 to 0x100000010)",
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := p.AddressRange(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("AddressRange(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if start != tt.wantStart {
				t.Errorf("start = %#x, want %#x", start, tt.wantStart)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %#x, want %#x", end, tt.wantEnd)
			}
		})
	}
}

func TestTrailingInteger(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name   string
		line   string
		want   uint32
		wantOK bool
	}{
		{name: "value history line", line: "$12 = 8228421", want: 8228421, wantOK: true},
		{name: "bare integer", line: "42", want: 42, wantOK: true},
		{name: "zero", line: "$1 = 0", want: 0, wantOK: true},
		{name: "no numbers", line: "no numbers here", wantOK: false},
		{name: "negative", line: "$3 = -7", wantOK: false},
		{name: "hex not accepted", line: "$4 = 0x1234", wantOK: false},
		{name: "empty", line: "", wantOK: false},
		{name: "whitespace only", line: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.TrailingInteger(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("TrailingInteger(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("TrailingInteger(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestCallResult(t *testing.T) {
	p := NewParser()

	t.Run("no return expected ignores output", func(t *testing.T) {
		got, err := p.CallResult([]string{"$1 = 5"}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("no return expected with empty output", func(t *testing.T) {
		got, err := p.CallResult(nil, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("return expected takes first line", func(t *testing.T) {
		got, err := p.CallResult([]string{"$7 = 1234", "trailing noise"}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "$7 = 1234" {
			t.Errorf("got %q, want %q", got, "$7 = 1234")
		}
	})

	t.Run("return expected with empty output fails", func(t *testing.T) {
		_, err := p.CallResult(nil, true)
		var nrv *NoReturnValueError
		if !errors.As(err, &nrv) {
			t.Fatalf("expected NoReturnValueError, got %v", err)
		}
	})
}
