// Package shell wires the pure logic step to real I/O: a receiver task, a
// sender task, a command bus, and the Lifecycle that builds and tears down
// the pools, channel, and goroutines around them.
package shell

import (
	"net"
	"sync"

	"github.com/gopatchy/artnode/bufferpool"
	"github.com/gopatchy/artnode/logic"
	"github.com/gopatchy/artnode/netio"
	"github.com/gopatchy/artnode/resolve"
)

// Config collects everything Lifecycle needs to assemble the
// receiver/sender/logic/command-bus pipeline around one network channel.
type Config struct {
	Bind                  resolve.Result
	Broadcast             bool
	ReuseAddress          bool
	RxBuffer              bufferpool.Config
	TxBuffer              bufferpool.Config
	EventQueueCapacity    int
	ActionQueueCapacity   int
	TTL                   int // outgoing unicast IP TTL; 0 leaves the OS default
	Logic                 logic.Config

	// PcapInterface, when non-empty, switches the rx side to live packet
	// capture on the named interface instead of reading from the bound
	// socket — for running alongside another process already holding
	// Art-Net's port. Transmission is unaffected; Sender always uses the
	// bound Channel.
	PcapInterface string
}

// Lifecycle owns every resource a running node needs and tears them all down
// exactly once, in the order that keeps no task sending on a channel
// another goroutine has already closed.
type Lifecycle struct {
	channel *netio.Channel
	rxPool  *bufferpool.Pool
	txPool  *bufferpool.Pool
	events  *EventQueue
	actions chan logic.Action
	diag    *Diagnostics

	receiver   receiverTask
	sender     *Sender
	commandBus *CommandBus
	logicCfg   logic.Config
	logicState *logic.State

	receiverWG sync.WaitGroup
	logicWG    sync.WaitGroup
	senderWG   sync.WaitGroup
	stopOnce   sync.Once
}

// New binds a Channel per cfg.Bind and assembles the pools and tasks around
// it. The tasks are not started until Run is called.
func New(cfg Config) (*Lifecycle, error) {
	channel, err := netio.Listen(netio.Config{
		IP:           cfg.Bind.IP,
		Port:         cfg.Bind.Port,
		Broadcast:    cfg.Broadcast,
		ReuseAddress: cfg.ReuseAddress,
		TTL:          cfg.TTL,
	})
	if err != nil {
		return nil, err
	}

	rxPool := bufferpool.New(cfg.RxBuffer)
	txPool := bufferpool.New(cfg.TxBuffer)
	diag := NewDiagnostics()
	events := NewEventQueue(cfg.EventQueueCapacity, diag)
	actions := make(chan logic.Action, cfg.ActionQueueCapacity)

	l := &Lifecycle{
		channel:  channel,
		rxPool:   rxPool,
		txPool:   txPool,
		events:   events,
		actions:  actions,
		diag:     diag,
		logicCfg: cfg.Logic,
	}
	if cfg.PcapInterface != "" {
		pcapReceiver, err := NewPcapReceiver(cfg.PcapInterface, events, diag)
		if err != nil {
			rxPool.Close()
			txPool.Close()
			channel.Close()
			return nil, err
		}
		l.receiver = pcapReceiver
	} else {
		l.receiver = NewReceiver(channel, rxPool, events, diag)
	}
	l.sender = NewSender(channel, txPool, actions, cfg.Logic.DefaultTarget, cfg.Logic.AllowLimitedBroadcast, diag)
	l.commandBus = NewCommandBus(events.Chan(), diag)
	return l, nil
}

// Run starts the receiver, logic, and sender tasks. It returns immediately;
// callers use CommandBus to drive the node and Shutdown/Wait to stop it.
func (l *Lifecycle) Run() {
	l.receiverWG.Add(1)
	go func() {
		defer l.receiverWG.Done()
		l.receiver.Run()
	}()

	l.logicWG.Add(1)
	go func() {
		defer l.logicWG.Done()
		l.runLogic()
	}()

	l.senderWG.Add(1)
	go func() {
		defer l.senderWG.Done()
		l.sender.Run()
	}()
}

func (l *Lifecycle) runLogic() {
	state := logic.Init(l.logicCfg)
	for {
		ev, ok := <-l.events.Chan()
		if !ok {
			break
		}

		var actions []logic.Action
		state, actions = logic.Step(state, l.logicCfg, ev)
		for _, a := range actions {
			l.actions <- a
		}

		if !state.Running {
			// Closing channels from within the goroutine that reads one of
			// them would deadlock Shutdown's own wait on this task; run
			// teardown on its own goroutine instead. The loop above still
			// exits normally once events closes.
			go l.Shutdown()
		}
	}
	l.logicState = state
}

// CommandBus returns the bus external callers use to inject commands.
func (l *Lifecycle) CommandBus() *CommandBus { return l.commandBus }

// Diagnostics returns the counter set the tasks record runtime conditions
// into.
func (l *Lifecycle) Diagnostics() *Diagnostics { return l.diag }

// LocalAddr returns the bound local address.
func (l *Lifecycle) LocalAddr() net.Addr { return l.channel.LocalAddr() }

// Shutdown closes the channel and, in order, the event and action streams,
// waiting for each task to finish with its channel before closing the next
// one. Safe to call more than once and safe to call concurrently with a
// shutdown command arriving through the event stream.
func (l *Lifecycle) Shutdown() {
	l.stopOnce.Do(func() {
		l.receiver.Stop()
		l.channel.Close()
		l.receiverWG.Wait()

		l.events.Close()
		l.logicWG.Wait()

		close(l.actions)
		l.senderWG.Wait()

		l.rxPool.Close()
		l.txPool.Close()
	})
}

// Wait blocks until the logic task has processed a shutdown and every task
// has exited. Callers that want a blocking run loop call Run then Wait.
func (l *Lifecycle) Wait() {
	l.receiverWG.Wait()
	l.logicWG.Wait()
	l.senderWG.Wait()
}
