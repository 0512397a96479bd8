package actor

import (
	"testing"
	"time"

	adactor "domoticz2talkops/internal/adapter/actor"
	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/internal/util"
	"domoticz2talkops/internal/util/actorutil"
	"domoticz2talkops/pkg/domoticz"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func spawnExecutorFixture(t *testing.T, client domoticz.Client) (*actor.ActorSystem, *actor.RootContext, *actor.PID, chan domain.PublishMessageRequest) {
	t.Helper()

	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	domoticzProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewDomoticzActor(client, 2*time.Second, logger)
	})
	domoticzPID := context.Spawn(domoticzProps)

	// stands in for the MQTT actor and records result publishes
	publishes := make(chan domain.PublishMessageRequest, 10)
	mqttProps := actor.PropsFromFunc(func(ctx actor.Context) {
		if req, ok := ctx.Message().(domain.PublishMessageRequest); ok {
			publishes <- req
			ctx.Respond(domain.PublishMessageResponse{})
		}
	})
	mqttPID := context.Spawn(mqttProps)

	executorProps := actor.PropsFromProducer(func() actor.Actor {
		return NewExecutorActor(&cfg, domoticzPID, mqttPID, logger)
	})
	pid := context.Spawn(executorProps)

	return as, context, pid, publishes
}

func TestExecutorUpdateLights(t *testing.T) {

	assert := assert.New(t)

	client := domoticz.CreateTestClient()
	as, context, pid, publishes := spawnExecutorFixture(t, client)
	defer as.Shutdown()

	result, err := context.RequestFuture(pid, domain.UpdateLightsRequest{Action: "On", IDs: []int{10, 14}}, 10*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.ActionResultResponse)

	assert.Equal("update_lights", resp.Function)
	assert.Equal("Done.", resp.Result)

	require.Equal(t, 2, len(client.SwitchCalls))
	assert.Equal(domoticz.SwitchCall{Kind: "light", Idx: 10, Command: "On"}, client.SwitchCalls[0])
	assert.Equal(domoticz.SwitchCall{Kind: "light", Idx: 14, Command: "On"}, client.SwitchCalls[1])

	pub := <-publishes
	assert.Equal("talkops/function/update_lights/result", pub.Topic)
	assert.Equal("Done.", pub.Payload)
	assert.False(pub.Retain)
}

func TestExecutorUpdateShuttersProgressForm(t *testing.T) {

	assert := assert.New(t)

	client := domoticz.CreateTestClient()
	as, context, pid, _ := spawnExecutorFixture(t, client)
	defer as.Shutdown()

	result, err := context.RequestFuture(pid, domain.UpdateShuttersRequest{Action: "Stop", IDs: []int{11}}, 10*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.ActionResultResponse)

	assert.Equal("update_shutters", resp.Function)
	assert.Equal("stopping.", resp.Result)

	require.Equal(t, 1, len(client.SwitchCalls))
	assert.Equal("Stop", client.SwitchCalls[0].Command)
}

func TestExecutorUpdateScenes(t *testing.T) {

	assert := assert.New(t)

	client := domoticz.CreateTestClient()
	as, context, pid, _ := spawnExecutorFixture(t, client)
	defer as.Shutdown()

	result, err := context.RequestFuture(pid, domain.UpdateScenesRequest{Action: "Toggle", IDs: []int{2}}, 10*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.ActionResultResponse)

	assert.Equal("Done.", resp.Result)

	require.Equal(t, 1, len(client.SwitchCalls))
	assert.Equal("scene", client.SwitchCalls[0].Kind)
	assert.Equal("Toggle", client.SwitchCalls[0].Command)
}

func TestExecutorRejectedCommandAbortsBatch(t *testing.T) {

	assert := assert.New(t)

	client := domoticz.CreateTestClient()
	client.RejectIdx = map[int]bool{10: true}
	as, context, pid, publishes := spawnExecutorFixture(t, client)
	defer as.Shutdown()

	result, err := context.RequestFuture(pid, domain.UpdateLightsRequest{Action: "Off", IDs: []int{10, 14}}, 10*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.ActionResultResponse)

	assert.Equal("Error: bad_request", resp.Result)
	assert.Equal(1, len(client.SwitchCalls), "remaining ids are skipped after a failure")

	pub := <-publishes
	assert.Equal("talkops/function/update_lights/result", pub.Topic)
	assert.Equal("Error: bad_request", pub.Payload)
}

func TestExecutorEmptyBatch(t *testing.T) {

	assert := assert.New(t)

	client := domoticz.CreateTestClient()
	as, context, pid, _ := spawnExecutorFixture(t, client)
	defer as.Shutdown()

	result, err := context.RequestFuture(pid, domain.UpdateLightsRequest{Action: "On"}, 10*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.ActionResultResponse)

	assert.Equal("Done.", resp.Result)
	assert.Empty(client.SwitchCalls)
}
