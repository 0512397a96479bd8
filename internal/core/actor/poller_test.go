package actor

import (
	"strings"
	"testing"
	"time"

	adactor "domoticz2talkops/internal/adapter/actor"
	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/internal/util"
	"domoticz2talkops/internal/util/actorutil"
	"domoticz2talkops/pkg/domoticz"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func awaitInstructions(t *testing.T, events <-chan domain.InstructionsUpdatedEvent, timeout time.Duration) *domain.InstructionsUpdatedEvent {
	t.Helper()
	select {
	case evt := <-events:
		return &evt
	case <-time.After(timeout):
		return nil
	}
}

func spawnPollerFixture(t *testing.T, client domoticz.Client) (*actor.ActorSystem, chan domain.InstructionsUpdatedEvent) {
	t.Helper()

	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	domoticzProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewDomoticzActor(client, 2*time.Second, logger)
	})
	domoticzPID := context.Spawn(domoticzProps)

	es := &eventstream.EventStream{}
	events := make(chan domain.InstructionsUpdatedEvent, 10)
	es.Subscribe(func(evt any) {
		if upd, ok := evt.(domain.InstructionsUpdatedEvent); ok {
			events <- upd
		}
	})

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&cfg, domoticzPID, es, logger)
	})
	context.Spawn(pollerProps)

	return as, events
}

func TestPollerActorPublishesInstructions(t *testing.T) {

	assert := assert.New(t)

	client := domoticz.CreateTestClient()
	as, events := spawnPollerFixture(t, client)
	defer as.Shutdown()

	evt := awaitInstructions(t, events, 10*time.Second)
	require.NotNil(t, evt, "poll cycle publishes an update")

	assert.Equal("2024.7", evt.ControllerVersion)
	assert.Contains(evt.Instructions, "``` yaml")
	assert.Contains(evt.Instructions, "Ceiling light")
	assert.Contains(evt.Instructions, "Bay window shutter")
	assert.Contains(evt.Instructions, "Evening lights")
	assert.Contains(evt.Instructions, "Living room")
	assert.NotContains(evt.Instructions, "Doorbell", "push buttons are not classified")

	assert.Equal(3, len(evt.FunctionSchemas), "all three functions active")
}

func TestPollerActorFailedCycleRearmsOneTimer(t *testing.T) {

	client := domoticz.CreateTestClient()
	client.FailDevices = true
	as, events := spawnPollerFixture(t, client)
	defer as.Shutdown()

	evt := awaitInstructions(t, events, 3*time.Second)
	require.Nil(t, evt, "no partial snapshot is published")

	// clear the fault: the rearmed timer must drive exactly one more cycle
	client.SetFailDevices(false)

	evt = awaitInstructions(t, events, 8*time.Second)
	require.NotNil(t, evt, "failed cycle rearms the poll timer")
	assert.Equal(t, "2024.7", evt.ControllerVersion)

	evt = awaitInstructions(t, events, 2*time.Second)
	assert.Nil(t, evt, "only one timer is armed per cycle")
}

func TestPollerActorFahrenheit(t *testing.T) {

	client := domoticz.CreateTestClient()
	client.TempUnit = 1
	as, events := spawnPollerFixture(t, client)
	defer as.Shutdown()

	evt := awaitInstructions(t, events, 10*time.Second)
	require.NotNil(t, evt)

	assert.True(t, strings.Contains(evt.Instructions, "°F"), "temperature unit follows controller settings")
}
