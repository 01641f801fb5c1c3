package makegtfs

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"

	"github.com/bluele/gcache"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

const defaultCacheSize = 256

// stopTimesCache memoizes stop time templates by the content of their
// inputs. Templates are computed at start time zero and shifted per trip, so
// every trip of a (shape, stops, speed) group hits the same entry.
type stopTimesCache struct {
	lru gcache.Cache
}

func newStopTimesCache(size int) *stopTimesCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &stopTimesCache{lru: gcache.New(size).LRU().Build()}
}

func (c *stopTimesCache) get(key uint64) ([]stopTimeRow, bool) {
	v, err := c.lru.Get(key)
	if err != nil {
		return nil, false
	}
	return v.([]stopTimeRow), true
}

func (c *stopTimesCache) put(key uint64, rows []stopTimeRow) {
	c.lru.Set(key, rows)
}

func (c *stopTimesCache) purge() {
	c.lru.Purge()
}

// templateKey hashes everything a stop time template depends on. Two calls
// with structurally equal inputs produce the same key.
func templateKey(
	shapeID string,
	path geom.LineString,
	stops []protofeed.Stop,
	routeType int,
	profile []SpeedSample,
	defaultSpeed float64,
) uint64 {
	w := hashWriter{h: fnv.New64a()}
	w.str(shapeID)
	w.num(float64(path.NumPoints()))
	for i := 0; i < path.NumPoints(); i++ {
		p := path.Point(i)
		w.num(p.X)
		w.num(p.Y)
	}
	w.num(float64(len(stops)))
	for _, s := range stops {
		w.str(s.StopID)
		w.num(s.X)
		w.num(s.Y)
	}
	w.num(float64(routeType))
	w.num(float64(len(profile)))
	for _, s := range profile {
		w.str(s.ZoneID)
		w.num(float64(s.Sequence))
		w.num(s.Dist)
		w.num(s.Speed)
	}
	w.num(defaultSpeed)
	return w.h.Sum64()
}

// hashWriter feeds canonical bytes into an FNV hash. NaN has no canonical
// form and can only arrive through a bug upstream, so it panics.
type hashWriter struct {
	h hash.Hash64
}

func (w hashWriter) str(s string) {
	w.h.Write([]byte(s))
	w.h.Write([]byte{0})
}

func (w hashWriter) num(v float64) {
	if math.IsNaN(v) {
		panic("stop time cache key input is NaN")
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	w.h.Write(buf[:])
}
