package collector

import (
	"context"
	"errors"
	"testing"

	"portwatch/internal/model"
)

const sampleLsofOutput = `COMMAND     PID   USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
nginx       100   root    6u  IPv4  12345      0t0  TCP *:80 (LISTEN)
nginx       100   root    7u  IPv6  12346      0t0  TCP *:80 (LISTEN)
chrome      200   alice  52u  IPv4  22222      0t0  TCP 10.0.0.5:51234->142.250.80.46:443 (ESTABLISHED)
dhclient    300   root    5u  IPv4  33333      0t0  UDP *:68
postgres    400   pg      8u  IPv4  44444      0t0  TCP 127.0.0.1:5432 (LISTEN)
`

func staticPath(path string) pathResolver {
	return func(context.Context, int32) string { return path }
}

func TestParsePortList(t *testing.T) {
	records := parsePortList(context.Background(), sampleLsofOutput, staticPath("/bin/true"))

	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	// First-seen wins for the deduplicated nginx (pid 100, port 80) pair.
	nginx := records[0]
	if nginx.PID != 100 || nginx.Port != 80 {
		t.Errorf("unexpected first record: %+v", nginx)
	}
	if nginx.State != model.StateHosting {
		t.Errorf("LISTEN row should classify as Hosting, got %v", nginx.State)
	}
	if nginx.ProcessName != "nginx" {
		t.Errorf("process name = %q, want nginx", nginx.ProcessName)
	}
	if nginx.ID != model.RecordID(100, 80, "nginx") {
		t.Error("record ID should hash (pid, port, name)")
	}
}

func TestParsePortList_DedupSamePIDPort(t *testing.T) {
	records := parsePortList(context.Background(), sampleLsofOutput, staticPath(""))

	count := 0
	for _, r := range records {
		if r.PID == 100 && r.Port == 80 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one record for (pid 100, port 80), got %d", count)
	}
}

func TestParsePortList_StateClassification(t *testing.T) {
	records := parsePortList(context.Background(), sampleLsofOutput, staticPath(""))

	byPID := make(map[int32]model.PortRecord)
	for _, r := range records {
		byPID[r.PID] = r
	}

	if byPID[200].State != model.StateUsing {
		t.Error("ESTABLISHED row should classify as Using")
	}
	if byPID[300].State != model.StateUsing {
		t.Error("stateless UDP row should classify as Using")
	}
	if byPID[400].State != model.StateHosting {
		t.Error("LISTEN row should classify as Hosting")
	}
}

func TestParsePortList_SkipsMalformedLines(t *testing.T) {
	out := `COMMAND     PID   USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
garbage
short line here
nginx       abc   root    6u  IPv4  12345      0t0  TCP *:80 (LISTEN)
nginx       100   root    6u  IPv4  12345      0t0  TCP *:8080 (LISTEN)
`
	records := parsePortList(context.Background(), out, staticPath(""))
	if len(records) != 1 {
		t.Fatalf("expected only the well-formed line to parse, got %d records", len(records))
	}
	if records[0].Port != 8080 {
		t.Errorf("port = %d, want 8080", records[0].Port)
	}
}

func TestParsePortList_SentinelPathKeepsRecord(t *testing.T) {
	records := parsePortList(context.Background(), sampleLsofOutput, staticPath(model.PathPermissionDenied))

	found := false
	for _, r := range records {
		if r.PID == 400 {
			found = true
			if r.ProcessPath != model.PathPermissionDenied {
				t.Errorf("path = %q, want sentinel", r.ProcessPath)
			}
		}
	}
	if !found {
		t.Error("permission-denied path resolution must not drop the record")
	}
}

func TestParsePortList_EmptyOutput(t *testing.T) {
	if records := parsePortList(context.Background(), "", staticPath("")); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

const sampleOwnerOutput = `COMMAND   PID USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
node     5555 bob   21u  IPv4  99999      0t0  TCP 127.0.0.1:3000 (LISTEN)
node     5555 bob   22u  IPv4  99998      0t0  TCP 127.0.0.1:3000->127.0.0.1:51000 (ESTABLISHED)
`

func TestParseOwner_SelfIsHosting(t *testing.T) {
	resolve := func(context.Context, int32, uint16) *model.ProcessIdentity {
		t.Fatal("identity resolver should not run for the excluded PID")
		return nil
	}
	info, err := parseOwner(context.Background(), sampleOwnerOutput, 3000, 5555, resolve)
	if err != nil {
		t.Fatalf("parseOwner failed: %v", err)
	}
	if info.State != model.StateHosting {
		t.Errorf("state = %v, want Hosting", info.State)
	}
	if info.Process != nil {
		t.Error("hosting result should carry no peer data")
	}
}

func TestParseOwner_OtherProcessIsUsing(t *testing.T) {
	resolve := func(_ context.Context, pid int32, port uint16) *model.ProcessIdentity {
		return &model.ProcessIdentity{PID: pid, Port: port, ProcessName: "node", ProcessPath: "/usr/bin/node"}
	}
	info, err := parseOwner(context.Background(), sampleOwnerOutput, 3000, 1, resolve)
	if err != nil {
		t.Fatalf("parseOwner failed: %v", err)
	}
	if info.State != model.StateUsing {
		t.Errorf("state = %v, want Using", info.State)
	}
	if info.Process == nil || info.Process.PID != 5555 {
		t.Errorf("expected identity for PID 5555, got %+v", info.Process)
	}
}

func TestParseOwner_NoListener(t *testing.T) {
	resolve := func(context.Context, int32, uint16) *model.ProcessIdentity { return nil }
	_, err := parseOwner(context.Background(), sampleOwnerOutput, 9999, 1, resolve)
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestPortFromAddr(t *testing.T) {
	tests := []struct {
		addr string
		want uint16
	}{
		{"127.0.0.1:8080", 8080},
		{"*:68", 68},
		{"[::1]:443", 443},
		{"10.0.0.5:51234->142.250.80.46:443", 443}, // numeric suffix wins
		{"*:*", 0},
		{"noport", 0},
		{"host:70000", 0}, // out of uint16 range
	}
	for _, tt := range tests {
		if got := portFromAddr(tt.addr); got != tt.want {
			t.Errorf("portFromAddr(%q) = %d, want %d", tt.addr, got, tt.want)
		}
	}
}
