package service

import (
	"context"
	"fmt"
	"sync"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/entity"

	"github.com/redis/go-redis/v9"
)

type fakeSnapshots struct {
	snapshot *entity.Snapshot
	err      error
	calls    []string
}

func (f *fakeSnapshots) Get(_ context.Context, symbol string) (*entity.Snapshot, error) {
	f.calls = append(f.calls, symbol)
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type fakeAnalysis struct {
	result *dto.AnalysisResult
	err    error
	calls  []string
}

func (f *fakeAnalysis) Analyze(_ context.Context, symbol string) (*dto.AnalysisResult, error) {
	f.calls = append(f.calls, symbol)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeAnalysis) Evaluate(*entity.Snapshot) *dto.AnalysisResult {
	return f.result
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.messages = append(f.messages, text)
	return f.err
}

// fakeStream is an in-memory stand-in for the go-redis stream commands.
type fakeStream struct {
	mu sync.Mutex

	readMessages []redis.XMessage
	readErr      error
	claimed      []redis.XMessage
	pending      []redis.XPendingExt

	added   []*redis.XAddArgs
	addErr  error
	acked   []string
	deleted []string
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	if f.addErr != nil {
		cmd.SetErr(f.addErr)
		return cmd
	}
	f.added = append(f.added, a)
	cmd.SetVal(fmt.Sprintf("%d-0", len(f.added)))
	return cmd
}

func (f *fakeStream) XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewXStreamSliceCmd(ctx)
	switch {
	case f.readErr != nil:
		cmd.SetErr(f.readErr)
	case len(f.readMessages) == 0:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal([]redis.XStream{{Stream: a.Streams[0], Messages: f.readMessages[:1]}})
		f.readMessages = f.readMessages[1:]
	}
	return cmd
}

func (f *fakeStream) XAck(ctx context.Context, _, _ string, ids ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, ids...)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(ids)))
	return cmd
}

func (f *fakeStream) XDel(ctx context.Context, _ string, ids ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids...)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(ids)))
	return cmd
}

func (f *fakeStream) XAutoClaim(ctx context.Context, _ *redis.XAutoClaimArgs) *redis.XAutoClaimCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewXAutoClaimCmd(ctx)
	cmd.SetVal(f.claimed, "0-0")
	return cmd
}

func (f *fakeStream) XPendingExt(ctx context.Context, _ *redis.XPendingExtArgs) *redis.XPendingExtCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewXPendingExtCmd(ctx)
	cmd.SetVal(f.pending)
	return cmd
}

func payloadMessage(id, payload string) redis.XMessage {
	return redis.XMessage{ID: id, Values: map[string]interface{}{"payload": payload}}
}
