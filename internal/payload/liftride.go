package payload

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

const (
	MaxResortID = 10
	MaxTime     = 360
	MaxLiftID   = 40
	SeasonID    = "2022"
	DayID       = "1"
)

// LiftRide is one skier riding one lift at one resort.
type LiftRide struct {
	ResortID int    `json:"resortID"`
	SeasonID string `json:"seasonID"`
	DayID    string `json:"dayID"`
	SkierID  string `json:"skierID"`
	Time     int    `json:"time"`
	LiftID   int    `json:"liftID"`
}

// Generator produces LiftRide records. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded with seed, or with the current time
// when seed is zero.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Ride builds the record for work item id.
func (g *Generator) Ride(id int64) LiftRide {
	g.mu.Lock()
	resort := g.rng.Intn(MaxResortID) + 1
	minute := g.rng.Intn(MaxTime) + 1
	lift := g.rng.Intn(MaxLiftID) + 1
	g.mu.Unlock()

	return LiftRide{
		ResortID: resort,
		SeasonID: SeasonID,
		DayID:    DayID,
		SkierID:  strconv.FormatInt(id, 10),
		Time:     minute,
		LiftID:   lift,
	}
}

// JSONCodec turns work item ids into JSON encoded LiftRide bodies.
type JSONCodec struct {
	gen *Generator
}

func NewJSONCodec(gen *Generator) *JSONCodec {
	if gen == nil {
		gen = NewGenerator(0)
	}
	return &JSONCodec{gen: gen}
}

// NewRecord returns a LiftRide for id.
func (c *JSONCodec) NewRecord(id int64) any {
	return c.gen.Ride(id)
}

// Encode serializes a record built by NewRecord.
func (c *JSONCodec) Encode(record any) ([]byte, error) {
	switch r := record.(type) {
	case LiftRide:
		return json.Marshal(r)
	case *LiftRide:
		if r == nil {
			return nil, fmt.Errorf("encode lift ride: nil record")
		}
		return json.Marshal(r)
	default:
		return nil, fmt.Errorf("encode lift ride: unsupported record type %T", record)
	}
}
