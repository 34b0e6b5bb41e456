package knapsack

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/zeebo/xxh3"

	kerrors "github.com/tamirms/knapsack/errors"
)

// Instance is a 0-1 knapsack problem. Profits[i] and Weights[i] describe
// item i.
type Instance struct {
	Profits  []int64
	Weights  []int64
	Capacity int64
}

// Fingerprint identifies an instance by the xxHash3-128 of its binary
// encoding. Equal instances have equal fingerprints.
type Fingerprint [16]byte

// Len returns the number of items.
func (inst *Instance) Len() int {
	return len(inst.Profits)
}

// Validate checks the instance against the input rules of Solve.
func (inst *Instance) Validate() error {
	return validate(inst.Profits, inst.Weights, inst.Capacity)
}

// Clone returns a deep copy of the instance.
func (inst *Instance) Clone() *Instance {
	return &Instance{
		Profits:  slices.Clone(inst.Profits),
		Weights:  slices.Clone(inst.Weights),
		Capacity: inst.Capacity,
	}
}

// TotalWeight returns the sum of all weights.
func (inst *Instance) TotalWeight() int64 {
	var sum int64
	for _, w := range inst.Weights {
		sum += w
	}
	return sum
}

// Fingerprint hashes the record encoding of the instance.
func (inst *Instance) Fingerprint() Fingerprint {
	buf := make([]byte, recordSize(inst.Len()))
	encodeRecordTo(inst, buf)
	h := xxh3.Hash128(buf)
	var fp Fingerprint
	binary.LittleEndian.PutUint64(fp[0:8], h.Lo)
	binary.LittleEndian.PutUint64(fp[8:16], h.Hi)
	return fp
}

// String returns the fingerprint as lowercase hex.
func (fp Fingerprint) String() string {
	return fmt.Sprintf("%x", fp[:])
}

// ParseText reads an instance in the plain text format:
//
//	n capacity
//	profit weight
//	... (n lines)
//
// Tokens may be separated by any whitespace.
func ParseText(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func(what string) (int64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("read %s: %w", what, err)
			}
			return 0, fmt.Errorf("%w: missing %s", kerrors.ErrInvalidInput, what)
		}
		v, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidInput, what, err)
		}
		return v, nil
	}

	n, err := next("item count")
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxItems {
		return nil, fmt.Errorf("%w: item count %d", kerrors.ErrInvalidInput, n)
	}
	capacity, err := next("capacity")
	if err != nil {
		return nil, err
	}
	inst := &Instance{
		Profits:  make([]int64, n),
		Weights:  make([]int64, n),
		Capacity: capacity,
	}
	for i := range n {
		if inst.Profits[i], err = next(fmt.Sprintf("profit of item %d", i)); err != nil {
			return nil, err
		}
		if inst.Weights[i], err = next(fmt.Sprintf("weight of item %d", i)); err != nil {
			return nil, err
		}
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// WriteText writes the instance in the format read by ParseText.
func (inst *Instance) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", inst.Len(), inst.Capacity)
	for i := range inst.Profits {
		fmt.Fprintf(bw, "%d %d\n", inst.Profits[i], inst.Weights[i])
	}
	return bw.Flush()
}

// ParseJSON reads an instance of the form
//
//	{"capacity": 10, "items": [{"profit": 10, "weight": 5}, ...]}
func ParseJSON(data []byte) (*Instance, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", kerrors.ErrInvalidInput)
	}
	root := gjson.ParseBytes(data)
	capacity := root.Get("capacity")
	if capacity.Type != gjson.Number {
		return nil, fmt.Errorf("%w: capacity must be a number", kerrors.ErrInvalidInput)
	}
	items := root.Get("items")
	if items.Exists() && !items.IsArray() {
		return nil, fmt.Errorf("%w: items must be an array", kerrors.ErrInvalidInput)
	}

	inst := &Instance{Capacity: capacity.Int()}
	var parseErr error
	items.ForEach(func(_, v gjson.Result) bool {
		p, w := v.Get("profit"), v.Get("weight")
		if p.Type != gjson.Number || w.Type != gjson.Number {
			parseErr = fmt.Errorf("%w: item %d needs numeric profit and weight", kerrors.ErrInvalidInput, len(inst.Profits))
			return false
		}
		inst.Profits = append(inst.Profits, p.Int())
		inst.Weights = append(inst.Weights, w.Int())
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
