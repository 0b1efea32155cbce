package core

import log "github.com/sirupsen/logrus"

// NetworkPublisher is the narrow outbound-gossip collaborator the façade
// calls after a block or pending transaction is locally accepted (spec §9).
// The core never dials peers or parses wire frames itself; that belongs to
// the session layer sitting on the other side of this interface.
type NetworkPublisher interface {
	PublishBlock(b *Block)
	PublishTransaction(tx *Transaction)
}

// NoopNetworkPublisher discards everything it's given. It is the default
// collaborator for a node running without peers, e.g. in tests.
type NoopNetworkPublisher struct{}

func (NoopNetworkPublisher) PublishBlock(*Block)            {}
func (NoopNetworkPublisher) PublishTransaction(*Transaction) {}

// LoggingNetworkPublisher wraps another NetworkPublisher and records every
// publish at debug level, useful while wiring up a real session layer.
type LoggingNetworkPublisher struct {
	Next   NetworkPublisher
	Logger *log.Logger
}

func (p LoggingNetworkPublisher) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.StandardLogger()
}

func (p LoggingNetworkPublisher) PublishBlock(b *Block) {
	p.logger().WithField("depth", b.Depth).Debug("network: publishing block")
	if p.Next != nil {
		p.Next.PublishBlock(b)
	}
}

func (p LoggingNetworkPublisher) PublishTransaction(tx *Transaction) {
	p.logger().WithField("tx", tx.Hash()).Debug("network: publishing transaction")
	if p.Next != nil {
		p.Next.PublishTransaction(tx)
	}
}
