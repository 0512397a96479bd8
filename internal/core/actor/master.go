package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "domoticz2talkops/internal/adapter/actor"
	"domoticz2talkops/internal/config"
	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/internal/mqtt"
	. "domoticz2talkops/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type DomoticzActorProvider func() *adactor.DomoticzActor

// MasterOfPuppetsActor supervises the whole actor tree and is the only PID
// the HTTP server talks to.
type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck    healthCheckResult
	lastInstructions      *domain.InstructionsUpdatedEvent
	eventStream           *eventstream.EventStream
	eventSub              *eventstream.Subscription
	domoticzActor         *actor.PID
	mqttActor             *actor.PID
	pollerActor           *actor.PID
	executorActor         *actor.PID
	domoticzActorProvider DomoticzActorProvider
	mqttActorProvider     MQTTActorProvider
	logger                *zap.Logger
}

type healthCheckResult struct {
	domoticzActorHealthy bool
	mqttActorHealthy     bool
	pollerActorHealthy   bool
	checksReceived       int
	respondTo            *actor.PID
}

func NewMasterOfPuppetsActor(config config.Config, domoticzActorProvider DomoticzActorProvider, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:                config,
		behavior:              actor.NewBehavior(),
		stash:                 &Stash{},
		logger:                ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:           &eventstream.EventStream{},
		domoticzActorProvider: domoticzActorProvider,
		mqttActorProvider:     mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		state.currentHealthCheck = healthCheckResult{}
		state.currentHealthCheck.reset()

		// cache the latest instructions for the HTTP server
		self := ctx.Self()
		system := ctx.ActorSystem()
		state.eventSub = state.eventStream.Subscribe(func(evt any) {
			if upd, ok := evt.(domain.InstructionsUpdatedEvent); ok {
				system.Root.Send(self, upd)
			}
		})

		// start Domoticz child
		domoticzActorPID, err := state.startDomoticzActor(ctx)
		if err != nil {
			panic(err)
		}
		state.domoticzActor = domoticzActorPID

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start Executor child
		executorActorPID, err := state.startExecutorActor(ctx)
		if err != nil {
			panic(err)
		}
		state.executorActor = executorActorPID

		// start Poller child
		pollerActorPID, err := state.startPollerActor(ctx)
		if err != nil {
			panic(err)
		}
		state.pollerActor = pollerActorPID

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset()
		state.currentHealthCheck.respondTo = ctx.Sender()
		// Domoticz Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.domoticzActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_DOMOTICZ,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		// Poller Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.pollerActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_POLLER,
				Healthy: false,
			}
		})

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case adactor.ParsedCommand:
		// route function call to the executor
		state.logger.Debug("master@default parsedCommand", zap.Any("call", msg.Call))
		if msg.Call != nil {
			if req := functionCallToRequest(*msg.Call); req != nil {
				ctx.Send(state.executorActor, req)
			}
		}
	case domain.InstructionsUpdatedEvent:
		state.logger.Debug("master@default InstructionsUpdatedEvent")
		state.lastInstructions = &msg
	case domain.GetInstructionsRequest:
		state.logger.Debug("master@default GetInstructionsRequest")
		resp := domain.GetInstructionsResponse{}
		if state.lastInstructions != nil {
			resp.Published = true
			resp.Instructions = state.lastInstructions.Instructions
			resp.FunctionSchemas = state.lastInstructions.FunctionSchemas
		}
		ForRequest(msg).Respond(ctx, resp)
	case *actor.Stopping:
		if state.eventSub != nil {
			state.eventStream.Unsubscribe(state.eventSub)
			state.eventSub = nil
		}
	case *actor.Terminated:
		// if some actor fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_DOMOTICZ) {
			state.logger.Error("master@default domoticz error")
			panic(errors.New("domoticz terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			if msg.Id == domain.ACTOR_ID_DOMOTICZ {
				state.currentHealthCheck.domoticzActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_MQTT {
				state.currentHealthCheck.mqttActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_POLLER {
				state.currentHealthCheck.pollerActorHealthy = true
			}
		}
		if state.currentHealthCheck.allReceived() {

			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// functionCallToRequest maps an inbound function call to its executor
// request. Unknown functions are dropped.
func functionCallToRequest(call mqtt.FunctionCall) any {
	switch call.Function {
	case FUNCTION_UPDATE_LIGHTS:
		return domain.UpdateLightsRequest{Action: call.Action, IDs: call.IDs}
	case FUNCTION_UPDATE_SHUTTERS:
		return domain.UpdateShuttersRequest{Action: call.Action, IDs: call.IDs}
	case FUNCTION_UPDATE_SCENES:
		return domain.UpdateScenesRequest{Action: call.Action, IDs: call.IDs}
	default:
		return nil
	}
}

func (state *MasterOfPuppetsActor) startDomoticzActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	domoticzProps := actor.PropsFromProducer(func() actor.Actor {
		return state.domoticzActorProvider()
	}, actor.WithSupervisor(supervisor))
	domoticzActorPID, err := ctx.SpawnNamed(domoticzProps, domain.ACTOR_ID_DOMOTICZ)
	if err != nil {
		return nil, err
	}

	return domoticzActorPID, nil
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *MasterOfPuppetsActor) startPollerActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewAllForOneStrategy(1, 10*time.Second, decider)

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&state.config, state.domoticzActor, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	pollerActorPID, err := ctx.SpawnNamed(pollerProps, domain.ACTOR_ID_POLLER)
	if err != nil {
		return nil, err
	}

	return pollerActorPID, nil
}

func (state *MasterOfPuppetsActor) startExecutorActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	executorProps := actor.PropsFromProducer(func() actor.Actor {
		return NewExecutorActor(&state.config, state.domoticzActor, state.mqttActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	executorPID, err := ctx.SpawnNamed(executorProps, domain.ACTOR_ID_EXECUTOR)
	if err != nil {
		return nil, err
	}

	return executorPID, nil
}

func (state *healthCheckResult) reset() {
	state.domoticzActorHealthy = false
	state.mqttActorHealthy = false
	state.pollerActorHealthy = false
	state.checksReceived = 0
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == 3
}

func (state *healthCheckResult) allHealthy() bool {
	return state.domoticzActorHealthy && state.mqttActorHealthy && state.pollerActorHealthy
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
