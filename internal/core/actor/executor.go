package actor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"domoticz2talkops/internal/config"
	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/internal/mqtt"
	"domoticz2talkops/pkg/domoticz"
	. "domoticz2talkops/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const (
	FUNCTION_UPDATE_LIGHTS   = "update_lights"
	FUNCTION_UPDATE_SHUTTERS = "update_shutters"
	FUNCTION_UPDATE_SCENES   = "update_scenes"
)

// ExecutorActor runs one action function at a time. Each target id becomes
// one switch command; the batch stops on the first failure and its result
// string is what the assistant reads back to the user.
type ExecutorActor struct {
	ActorWithStates
	stash         *Stash
	domoticzActor *actor.PID
	mqttActor     *actor.PID
	config        *config.Config

	logger *zap.Logger
}

type switchKind int

const (
	switchLight switchKind = iota
	switchScene
)

// batch is the in-flight function invocation.
type batch struct {
	function  string
	action    string
	kind      switchKind
	remaining []int
	success   string
	replyTo   *actor.PID
}

func NewExecutorActor(config *config.Config, domoticzActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *ExecutorActor {
	act := &ExecutorActor{
		config:        config,
		domoticzActor: domoticzActor,
		mqttActor:     mqttActor,
		stash:         &Stash{},
		logger:        ActorLogger(domain.ACTOR_ID_EXECUTOR, logger),
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(ExecIdleState{
		actor: act,
	})
	return act
}

func (state *ExecutorActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

// Idle state

type ExecIdleState struct {
	ActorState
	actor *ExecutorActor
}

func (state ExecIdleState) Name() string {
	return "idle"
}

func (state ExecIdleState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("executor@idle: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_EXECUTOR,
			Healthy: true,
			State:   state.Name(),
		})
	case domain.UpdateLightsRequest:
		state.actor.logger.Debug("executor@idle: UpdateLightsRequest",
			zap.String("action", msg.Action), zap.Ints("ids", msg.IDs))
		state.actor.startBatch(ctx, batch{
			function:  FUNCTION_UPDATE_LIGHTS,
			action:    msg.Action,
			kind:      switchLight,
			remaining: msg.IDs,
			success:   "Done.",
			replyTo:   ForRequest(msg).ReplyTo(ctx),
		})
	case domain.UpdateShuttersRequest:
		state.actor.logger.Debug("executor@idle: UpdateShuttersRequest",
			zap.String("action", msg.Action), zap.Ints("ids", msg.IDs))
		state.actor.startBatch(ctx, batch{
			function:  FUNCTION_UPDATE_SHUTTERS,
			action:    msg.Action,
			kind:      switchLight,
			remaining: msg.IDs,
			success:   shutterProgressForm(msg.Action),
			replyTo:   ForRequest(msg).ReplyTo(ctx),
		})
	case domain.UpdateScenesRequest:
		state.actor.logger.Debug("executor@idle: UpdateScenesRequest",
			zap.String("action", msg.Action), zap.Ints("ids", msg.IDs))
		state.actor.startBatch(ctx, batch{
			function:  FUNCTION_UPDATE_SCENES,
			action:    msg.Action,
			kind:      switchScene,
			remaining: msg.IDs,
			success:   "Done.",
			replyTo:   ForRequest(msg).ReplyTo(ctx),
		})
	case domain.PublishMessageResponse:
		// result publish outcome from the MQTT actor
		if msg.HasResponseError() {
			state.actor.logger.Error("executor@idle: result publish failed", zap.Error(msg.GetResponseError()))
		}
	default:
		state.actor.logger.Debug("executor@idle: recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// Switching state

type ExecSwitchingState struct {
	ActorState
	actor *ExecutorActor
	batch batch
}

func (state ExecSwitchingState) Name() string {
	return "switching"
}

func (state ExecSwitchingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("executor@switching: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_EXECUTOR,
			Healthy: true,
			State:   state.Name(),
		})
	case domain.SwitchLightResponse:
		state.next(ctx, msg.GetResponseError())
	case domain.SwitchSceneResponse:
		state.next(ctx, msg.GetResponseError())
	default:
		state.actor.logger.Debug("executor@switching: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

func (state ExecSwitchingState) next(ctx actor.Context, err error) {
	if err != nil {
		state.actor.logger.Error("executor@switching: switch failed",
			zap.String("function", state.batch.function), zap.Error(err))
		state.actor.finishBatch(ctx, state.batch, errorResult(err))
		return
	}
	b := state.batch
	b.remaining = b.remaining[1:]
	state.actor.continueBatch(ctx, b)
}

// startBatch kicks off the first switch command or replies immediately when
// there is nothing to do.
func (a *ExecutorActor) startBatch(ctx actor.Context, b batch) {
	a.continueBatch(ctx, b)
}

func (a *ExecutorActor) continueBatch(ctx actor.Context, b batch) {
	if len(b.remaining) == 0 {
		a.finishBatch(ctx, b, b.success)
		return
	}
	idx := b.remaining[0]
	switch b.kind {
	case switchScene:
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(a.domoticzActor,
			domain.SwitchSceneRequest{Idx: idx, Command: b.action}, a.switchTimeout()), func(err error) any {
			return domain.SwitchSceneResponse{ActorResponseMixIn: errorResponse(err)}
		})
	default:
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(a.domoticzActor,
			domain.SwitchLightRequest{Idx: idx, Command: b.action}, a.switchTimeout()), func(err error) any {
			return domain.SwitchLightResponse{ActorResponseMixIn: errorResponse(err)}
		})
	}
	a.Become(ExecSwitchingState{
		actor: a,
		batch: b,
	})
}

func (a *ExecutorActor) finishBatch(ctx actor.Context, b batch, result string) {
	a.logger.Debug("executor: batch finished",
		zap.String("function", b.function), zap.String("result", result))
	if b.replyTo != nil {
		ctx.Send(b.replyTo, domain.ActionResultResponse{
			Function: b.function,
			Result:   result,
		})
	}
	ctx.Request(a.mqttActor, domain.PublishMessageRequest{
		Topic:   mqtt.FunctionResultTopic(a.config.MQTT.BaseTopic, b.function),
		Payload: result,
	})
	a.Become(ExecIdleState{
		actor: a,
	})
	a.stash.UnstashAll(ctx)
}

func (a *ExecutorActor) switchTimeout() time.Duration {
	return time.Duration(a.config.Domoticz.RequestTimeoutMillis)*time.Millisecond + 2*time.Second
}

// errorResult formats a failed switch for the assistant. A controller side
// rejection always reads the same regardless of which id was refused.
func errorResult(err error) string {
	if errors.Is(err, domoticz.ErrApplication) {
		return fmt.Sprintf("Error: %s", domoticz.ErrApplication.Error())
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// shutterProgressForm turns a shutter action into the progress form reported
// while the motor is still moving.
func shutterProgressForm(action string) string {
	switch strings.ToLower(action) {
	case "open":
		return "opening."
	case "close":
		return "closing."
	case "stop":
		return "stopping."
	default:
		return strings.ToLower(action) + "ing."
	}
}
