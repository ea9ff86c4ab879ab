package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iotaledger/iota.go/v3/nodeclient"

	"xcasset/assets"
	"xcasset/config"
	"xcasset/gl"
	"xcasset/model"
)

// Gateway drains the inbound message queue and runs every message through the
// executor. Messages whose ID was executed before are rejected as replays.
type Gateway struct {
	executor *Executor
	limits   *assets.Limits
	node     *nodeclient.Client
	seen     map[common.Hash]bool
	quit     chan struct{}
}

// NewGateway returns a gateway executing against a fresh executor.
func NewGateway() *Gateway {
	limits := config.Limits()
	return &Gateway{
		executor: NewExecutor(limits),
		limits:   limits,
		node:     nodeclient.New(config.Server.NodeUrl),
		seen:     make(map[common.Hash]bool),
		quit:     make(chan struct{}),
	}
}

// Executor exposes the account state the gateway executes against.
func (g *Gateway) Executor() *Executor {
	return g.executor
}

// Start begins polling the queue. The loop ends when Stop gets called or the
// process wide cleanup channel closes.
func (g *Gateway) Start() {
	pollTime := config.Server.PollTime
	if pollTime == 0 {
		pollTime = 5
	}
	go gl.WaitAndCleanup(g.Stop)
	gl.TopWaitGroup.Add(1)
	go func() {
		defer gl.TopWaitGroup.Done()
		gl.OutLogger.Info("Begin to listen transfer messages. poll %ds.", pollTime)
		ticker := time.NewTicker(pollTime * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.drainQueue()
			case <-g.quit:
				return
			}
		}
	}()
}

// Stop ends the polling loop.
func (g *Gateway) Stop() {
	close(g.quit)
}

// Submit validates a raw transfer message encoding against the configured
// limits and queues it for execution, returning the queue record id.
func (g *Gateway) Submit(data []byte) (string, error) {
	if _, err := TransferMessageFromBytes(data, g.limits); err != nil {
		return "", fmt.Errorf("unable to submit transfer message: %w", err)
	}
	return model.StoreMessage(data)
}

func (g *Gateway) drainQueue() {
	batch := config.Server.Batch
	if batch == 0 {
		batch = 20
	}
	mrs, err := model.PendingMessages(batch)
	if err != nil {
		gl.OutLogger.Error("read pending messages from db error. %v", err)
		return
	}
	for _, mr := range mrs {
		g.dealMessage(mr)
	}
}

func (g *Gateway) dealMessage(mr *model.MessageRecord) {
	msg, err := TransferMessageFromBytes(mr.Data, g.limits)
	if err != nil {
		gl.OutLogger.Error("decode transfer message error(%v). %s", err, mr.Rid)
		g.reject(mr, "", err)
		return
	}
	id, err := msg.ID()
	if err != nil {
		gl.OutLogger.Error("hash transfer message error(%v). %s", err, mr.Rid)
		g.reject(mr, "", err)
		return
	}
	if g.seen[id] {
		gl.OutLogger.Error("replayed transfer message. %s : %s", mr.Rid, id.Hex())
		if err := model.UpdateMessageState(mr.Rid, id.Hex(), model.StateRejected, "replay"); err != nil {
			gl.OutLogger.Error("update message state error(%v). %s", err, mr.Rid)
		}
		return
	}
	if err := g.executor.Execute(msg); err != nil {
		gl.OutLogger.Error("execute transfer message error(%v). %s", err, mr.Rid)
		g.reject(mr, id.Hex(), err)
		return
	}
	g.seen[id] = true
	if err := model.UpdateMessageState(mr.Rid, id.Hex(), model.StateDone, ""); err != nil {
		gl.OutLogger.Error("update message state error(%v). %s", err, mr.Rid)
		return
	}
	gl.OutLogger.Info("transfer message executed. %s : %s", mr.Rid, id.Hex())
}

func (g *Gateway) reject(mr *model.MessageRecord, hash string, cause error) {
	if err := model.UpdateMessageState(mr.Rid, hash, model.StateRejected, cause.Error()); err != nil {
		gl.OutLogger.Error("update message state error(%v). %s", err, mr.Rid)
	}
}

// CheckHealth verifies the message database and the configured node are reachable.
func (g *Gateway) CheckHealth() error {
	if err := model.Ping(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	info, err := g.node.Info(ctx)
	if err != nil {
		return err
	}
	gl.OutLogger.Info("node %s is up. version %s.", config.Server.NodeUrl, info.Version)
	return nil
}
