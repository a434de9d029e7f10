package meter

import "github.com/ineyio/sidekick"

// NoopMeter is a meter that does nothing.
type NoopMeter struct{}

var _ sidekick.Meter = (*NoopMeter)(nil)

func (m *NoopMeter) OnRequest(sidekick.RequestEvent)   {}
func (m *NoopMeter) OnUpstream(sidekick.UpstreamEvent) {}
