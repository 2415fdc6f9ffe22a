package remote

import (
	"log"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DebounceInterval is the minimum gap between two accepted packets from the
// same remote id.
const DebounceInterval = 250 * time.Millisecond

// idLimiterEntry tracks one remote id's debounce state: a sync.Map of
// per-key rate.Limiter plus a periodic cleanup sweep, keyed by remote id.
type idLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Listener receives remote button packets over UDP, validates their CRC and
// id against a known registry, and invokes onTimeout (debounced) for each
// accepted packet.
type Listener struct {
	addr      string
	knownIDs  map[uint32]struct{}
	onTimeout func(id uint32)

	limiters sync.Map // map[uint32]*idLimiterEntry

	conn     *net.UDPConn
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewListener creates a listener for addr (e.g. ":5810") accepting packets
// from the given set of known remote ids.
func NewListener(addr string, knownIDs []uint32, onTimeout func(id uint32)) *Listener {
	known := make(map[uint32]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = struct{}{}
	}
	return &Listener{
		addr:      addr,
		knownIDs:  known,
		onTimeout: onTimeout,
		stopCh:    make(chan struct{}),
	}
}

// Run resolves addr and blocks reading packets until Stop is called.
func (l *Listener) Run() error {
	udpAddr, err := net.ResolveUDPAddr("udp", l.addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	l.conn = conn
	defer conn.Close()

	go l.cleanupLoop()

	buf := make([]byte, PacketLen+16) // generous over-read so a too-long datagram is still rejected by DecodePacket's length check
	for {
		select {
		case <-l.stopCh:
			return nil
		default:
		}
		conn.SetReadDeadline(time.Now().Add(time.Second))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-l.stopCh:
				return nil
			default:
				log.Printf("remote listener read error: %v", err)
				continue
			}
		}
		l.handlePacket(buf[:n])
	}
}

// Stop halts Run.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		if l.conn != nil {
			l.conn.Close()
		}
	})
}

func (l *Listener) handlePacket(buf []byte) {
	id, ok := DecodePacket(buf)
	if !ok {
		return
	}
	if _, known := l.knownIDs[id]; !known {
		return
	}
	if !l.allow(id) {
		return
	}
	if l.onTimeout != nil {
		l.onTimeout(id)
	}
}

func (l *Listener) allow(id uint32) bool {
	v, _ := l.limiters.LoadOrStore(id, &idLimiterEntry{
		limiter: rate.NewLimiter(rate.Every(DebounceInterval), 1),
	})
	entry := v.(*idLimiterEntry)
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (l *Listener) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-5 * time.Minute)
			l.limiters.Range(func(key, value interface{}) bool {
				if value.(*idLimiterEntry).lastSeen.Before(cutoff) {
					l.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
