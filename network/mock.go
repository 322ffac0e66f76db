package network

import "context"

// MockService is a test double for Service.
// All function fields must be set before the corresponding method is called.
type MockService struct {
	FetchUnspentOutputsFn func(ctx context.Context, address string) (*OutputSet, error)
	BroadcastFn           func(ctx context.Context, rawTx []byte) (string, error)
	PushContentFn         func(ctx context.Context, content []byte) (string, error)
}

func (m *MockService) FetchUnspentOutputs(ctx context.Context, address string) (*OutputSet, error) {
	return m.FetchUnspentOutputsFn(ctx, address)
}
func (m *MockService) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	return m.BroadcastFn(ctx, rawTx)
}
func (m *MockService) PushContent(ctx context.Context, content []byte) (string, error) {
	return m.PushContentFn(ctx, content)
}
