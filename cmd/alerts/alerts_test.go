package alerts

import "testing"

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"14d", 14, false},
		{"7", 7, false},
		{" 30d ", 30, false},
		{"0d", 0, true},
		{"-3d", 0, true},
		{"fortnight", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseWindow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWindow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseWindow(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWindowFlagRegistered(t *testing.T) {
	cmd := NewCommand()
	if cmd.Flags().Lookup("window") == nil {
		t.Error("alerts command should expose --window")
	}
	if cmd.Flags().Lookup("priority") == nil {
		t.Error("alerts command should expose --priority")
	}
}
