package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStale is returned when a newer refresh superseded the computation
var ErrStale = errors.New("result superseded by a newer refresh")

// ViewState is the published inventory and history of one refresh
type ViewState struct {
	Generation   uint64
	Inventory    *InventoryResponse
	InventoryErr error
	History      *HistoryResponse
	HistoryErr   error
	UpdatedAt    time.Time
}

// LiveView keeps the visible state in sync with the folder. Each refresh
// cancels the one before it and only the newest refresh may publish.
type LiveView struct {
	inventory *InventoryService
	history   *HistoryService
	gen       *Generation

	mu         sync.Mutex
	cancel     context.CancelFunc
	invReq     InventoryRequest
	historyReq HistoryRequest

	stateMu sync.RWMutex
	state   ViewState
}

// NewLiveView creates a live view over both services
func NewLiveView(inventory *InventoryService, history *HistoryService, invReq InventoryRequest, historyReq HistoryRequest) *LiveView {
	return &LiveView{
		inventory:  inventory,
		history:    history,
		gen:        NewGeneration(),
		invReq:     invReq,
		historyReq: historyReq,
	}
}

// SetSearch changes the inventory search term used by later refreshes
func (v *LiveView) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.invReq.Search = term
}

// SetMaxDays changes the history window used by later refreshes
func (v *LiveView) SetMaxDays(maxDays int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.historyReq.MaxDays = maxDays
}

// State returns the last published state
func (v *LiveView) State() ViewState {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.state
}

// Refresh recomputes inventory and history. It returns ErrStale when another
// refresh started before this one finished; the state is then left untouched.
func (v *LiveView) Refresh(ctx context.Context) (ViewState, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Tickets are issued in cancel order; an older refresh never cancels a newer one
	v.mu.Lock()
	ticket := v.gen.Begin()
	if v.cancel != nil {
		v.cancel()
	}
	v.cancel = cancel
	invReq := v.invReq
	historyReq := v.historyReq
	v.mu.Unlock()

	state := ViewState{Generation: ticket.ID()}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		state.Inventory, state.InventoryErr = v.inventory.Execute(ctx, invReq)
	}()
	go func() {
		defer wg.Done()
		state.History, state.HistoryErr = v.history.Execute(ctx, historyReq)
	}()
	wg.Wait()

	if !ticket.Current() {
		return ViewState{}, ErrStale
	}
	if err := ctx.Err(); err != nil {
		return ViewState{}, err
	}

	state.UpdatedAt = time.Now()
	published := v.gen.Publish(ticket, func() {
		v.stateMu.Lock()
		v.state = state
		v.stateMu.Unlock()
	})
	if !published {
		return ViewState{}, ErrStale
	}

	return state, nil
}
