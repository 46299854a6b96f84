package service

import (
	"sync/atomic"
	"time"
)

// State — что видно снаружи про цикл опроса. Пишет runner, читают HTTP-ручки.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastCycleUnix atomic.Int64 // unix seconds
	lastStage     atomic.Value // string
	lastSignal    atomic.Value // string
	cycles        atomic.Int64
	failures      atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	s.lastStage.Store("")
	s.lastSignal.Store("")
	return s
}

func (s *State) Ready() bool { return s.ready.Load() }

// RecordCycle вызывается в конце каждого цикла. Первый завершённый цикл делает сервис ready.
func (s *State) RecordCycle(at time.Time, stage, signal string, failed bool) {
	s.lastCycleUnix.Store(at.Unix())
	s.lastStage.Store(stage)
	s.lastSignal.Store(signal)
	s.cycles.Add(1)
	if failed {
		s.failures.Add(1)
	}
	s.ready.Store(true)
}

func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) LastStage() string  { return s.lastStage.Load().(string) }
func (s *State) LastSignal() string { return s.lastSignal.Load().(string) }
func (s *State) Cycles() int64      { return s.cycles.Load() }
func (s *State) Failures() int64    { return s.failures.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
