package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dkvc/AutumSem-OR/internal/vrp"
)

// ErrFormat marks a dataset file that does not follow the Solomon layout.
var ErrFormat = errors.New("malformed dataset")

type customerRow struct {
	id      int
	x, y    float64
	demand  int
	ready   int
	due     int
	service int
}

// ParseSolomon reads a Solomon-format benchmark file: a VEHICLE section with
// fleet size and capacity, then one row per customer with coordinates,
// demand, time window, and service time. Node 0 is the depot.
func ParseSolomon(name string, r io.Reader) (Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		haveFleet   bool
		numVehicles int
		capacity    int
		rows        []customerRow
	)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if !haveFleet {
			// The fleet line is the first one made of exactly two integers.
			if len(fields) == 2 {
				nv, err1 := strconv.Atoi(fields[0])
				qv, err2 := strconv.Atoi(fields[1])
				if err1 == nil && err2 == nil {
					if nv <= 0 || qv <= 0 {
						return Dataset{}, fmt.Errorf("%w: non-positive fleet size or capacity", ErrFormat)
					}
					numVehicles, capacity = nv, qv
					haveFleet = true
				}
			}
			continue
		}
		row, ok, err := parseCustomerRow(fields)
		if err != nil {
			return Dataset{}, err
		}
		if ok {
			rows = append(rows, row)
		}
	}
	if err := sc.Err(); err != nil {
		return Dataset{}, err
	}
	if !haveFleet {
		return Dataset{}, fmt.Errorf("%w: missing vehicle section", ErrFormat)
	}
	if len(rows) < 2 {
		return Dataset{}, fmt.Errorf("%w: need a depot and at least one customer", ErrFormat)
	}

	n := len(rows)
	in := vrp.Instance{
		NumVehicles: numVehicles,
		Capacity:    capacity,
		X:           make([]float64, n),
		Y:           make([]float64, n),
		Demands:     make([]int, n),
		ReadyTimes:  make([]int, n),
		DueTimes:    make([]int, n),
		ServiceSec:  make([]int, n),
		HasWindows:  true,
	}
	seen := make([]bool, n)
	for _, row := range rows {
		if row.id < 0 || row.id >= n {
			return Dataset{}, fmt.Errorf("%w: customer id %d outside 0..%d", ErrFormat, row.id, n-1)
		}
		if seen[row.id] {
			return Dataset{}, fmt.Errorf("%w: duplicate customer id %d", ErrFormat, row.id)
		}
		seen[row.id] = true
		in.X[row.id] = row.x
		in.Y[row.id] = row.y
		in.Demands[row.id] = row.demand
		in.ReadyTimes[row.id] = row.ready
		in.DueTimes[row.id] = row.due
		in.ServiceSec[row.id] = row.service
	}

	return Dataset{Name: name, Instance: in}, nil
}

// parseCustomerRow interprets a line with at least seven numeric columns.
// Header and decoration lines are skipped, not rejected; the format pads
// sections with prose.
func parseCustomerRow(fields []string) (customerRow, bool, error) {
	if len(fields) < 7 {
		return customerRow{}, false, nil
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return customerRow{}, false, nil
	}
	nums := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return customerRow{}, false, fmt.Errorf("%w: bad column %d in customer %d", ErrFormat, i+1, id)
		}
		nums[i] = v
	}
	return customerRow{
		id:      id,
		x:       nums[0],
		y:       nums[1],
		demand:  int(nums[2]),
		ready:   int(nums[3]),
		due:     int(nums[4]),
		service: int(nums[5]),
	}, true, nil
}
