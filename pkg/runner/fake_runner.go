package runner

import (
	"context"
	"sync"
)

// Call 记录一次外部命令调用
type Call struct {
	Name string
	Args []string
}

// FakeRunner 用于测试的命令执行器，按 Handler 返回预设结果
type FakeRunner struct {
	mu    sync.Mutex
	calls []Call

	// Handler 为空时所有调用都返回成功且输出为空
	Handler func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

func (r *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Name: name, Args: append([]string(nil), args...)})
	r.mu.Unlock()

	if r.Handler != nil {
		return r.Handler(ctx, name, args...)
	}
	return nil, nil, nil
}

// Calls 返回记录的所有调用
func (r *FakeRunner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)
	return calls
}
