package host

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"
)

var (
	ErrProfileCooldown = errors.New("capture on cooldown")
	ErrProfileBusy     = errors.New("already profiling")
)

// Profiler captures a CPU profile and an execution trace in the background
type Profiler struct {
	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	captureDuration time.Duration
	profilesDir     string
	logger          *log.Logger
	wg              sync.WaitGroup
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string, duration, cooldown time.Duration, logger *log.Logger) (*Profiler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create profiles dir: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Profiler{
		captureCooldown: cooldown,
		captureDuration: duration,
		profilesDir:     dir,
		logger:          logger,
	}, nil
}

// CaptureProfile starts a capture tagged with reason. It returns
// ErrProfileCooldown or ErrProfileBusy instead of overlapping captures.
func (p *Profiler) CaptureProfile(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastCaptureTime.IsZero() && time.Since(p.lastCaptureTime) < p.captureCooldown {
		return fmt.Errorf("%w (last capture was %v ago)", ErrProfileCooldown, time.Since(p.lastCaptureTime).Round(time.Millisecond))
	}
	if p.isProfiling {
		return ErrProfileBusy
	}

	p.isProfiling = true
	p.lastCaptureTime = time.Now()

	baseName := fmt.Sprintf("fps-drop-%s-%s", time.Now().Format("20060102-150405"), reason)

	// Capture in a goroutine to avoid blocking the frame loop
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := p.captureCPUProfile(baseName); err != nil {
				p.logger.Printf("profiler: cpu profile: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := p.captureTrace(baseName); err != nil {
				p.logger.Printf("profiler: trace: %v", err)
			}
		}()
		wg.Wait()

		p.summarize(baseName)
	}()

	return nil
}

// Wait blocks until a running capture has finished
func (p *Profiler) Wait() {
	p.wg.Wait()
}

// IsProfiling returns whether a profile capture is currently in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

func (p *Profiler) captureCPUProfile(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".cpu.prof")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	time.Sleep(p.captureDuration)
	pprof.StopCPUProfile()

	p.logger.Printf("profiler: CPU profile saved to %s", path)
	return nil
}

func (p *Profiler) captureTrace(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".trace")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	time.Sleep(p.captureDuration)
	trace.Stop()

	p.logger.Printf("profiler: trace saved to %s", path)
	return nil
}

// summarize logs the profile size, how to open it, and the heap at capture time
func (p *Profiler) summarize(baseName string) {
	path := filepath.Join(p.profilesDir, baseName+".cpu.prof")
	info, err := os.Stat(path)
	if err != nil {
		p.logger.Printf("profiler: could not analyze profile: %v", err)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.logger.Printf("profiler: %s (%.2f KB), view with: go tool pprof -http=:8080 %s", baseName, float64(info.Size())/1024, path)
	p.logger.Printf("profiler: Alloc=%d KB Sys=%d KB NumGC=%d HeapObjects=%d", m.Alloc/1024, m.Sys/1024, m.NumGC, m.HeapObjects)
}
