package dataset

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const solomonSample = `R101

VEHICLE
NUMBER     CAPACITY
   2         50

CUSTOMER
CUST NO.  XCOORD.   YCOORD.    DEMAND   READY TIME  DUE DATE   SERVICE TIME
    0      35         35          0          0       230          0
    1      41         49         10          0       204         10
    2      22         75         30        112       167         90
`

func TestParseSolomon(t *testing.T) {
	d, err := ParseSolomon("r101", strings.NewReader(solomonSample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	in := d.Instance
	if d.Name != "r101" {
		t.Fatalf("name: got %q", d.Name)
	}
	if in.NumVehicles != 2 || in.Capacity != 50 {
		t.Fatalf("fleet: got %d vehicles, capacity %d", in.NumVehicles, in.Capacity)
	}
	if len(in.X) != 3 {
		t.Fatalf("nodes: got %d", len(in.X))
	}
	if in.X[2] != 22 || in.Y[2] != 75 {
		t.Fatalf("coords of node 2: got (%v,%v)", in.X[2], in.Y[2])
	}
	if in.Demands[0] != 0 || in.Demands[1] != 10 || in.Demands[2] != 30 {
		t.Fatalf("demands: got %v", in.Demands)
	}
	if in.ReadyTimes[2] != 112 || in.DueTimes[2] != 167 || in.ServiceSec[2] != 90 {
		t.Fatalf("window of node 2: got [%d,%d] service %d", in.ReadyTimes[2], in.DueTimes[2], in.ServiceSec[2])
	}
	if !in.HasWindows {
		t.Fatalf("expected HasWindows")
	}
}

func TestParseSolomonRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no fleet line", "R101\nVEHICLE\nNUMBER CAPACITY\n"},
		{"zero capacity", "R101\n2 0\n0 35 35 0 0 230 0\n1 41 49 10 0 204 10\n"},
		{"depot only", "R101\n2 50\n0 35 35 0 0 230 0\n"},
		{"duplicate id", "R101\n2 50\n0 35 35 0 0 230 0\n0 41 49 10 0 204 10\n"},
		{"id out of range", "R101\n2 50\n0 35 35 0 0 230 0\n7 41 49 10 0 204 10\n"},
		{"bad column", "R101\n2 50\n0 35 35 0 0 230 0\n1 41 nope 10 0 204 10\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSolomon("x", strings.NewReader(tc.input)); !errors.Is(err, ErrFormat) {
				t.Fatalf("want ErrFormat, got %v", err)
			}
		})
	}
}

func TestParseSolomonSkipsDecoration(t *testing.T) {
	// Header and prose lines between sections must not be mistaken for data.
	input := "c201\n\nVEHICLE\nNUMBER     CAPACITY\n  3    700\n\nCUSTOMER\n" +
		"CUST NO.  XCOORD.   YCOORD.    DEMAND   READY TIME  DUE DATE   SERVICE TIME\n\n" +
		"0 40 50 0 0 3390 0\n1 45 68 10 0 1000 90\n"
	d, err := ParseSolomon("c201", strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Instance.NumVehicles != 3 || d.Instance.Capacity != 700 {
		t.Fatalf("fleet: got %+v", d.Instance)
	}
}

func TestDescribe(t *testing.T) {
	d, err := ParseSolomon("r101", strings.NewReader(solomonSample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	info := Describe(d)
	if info.Customers != 2 || info.NumVehicles != 2 || info.Capacity != 50 {
		t.Fatalf("describe: got %+v", info)
	}

	// The capacity key on the wire is vehicle_capacity.
	b, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"vehicle_capacity":50`) {
		t.Fatalf("info json: %s", b)
	}
}
