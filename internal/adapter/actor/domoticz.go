package actor

import (
	"fmt"
	"time"

	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/internal/util/actorutil"
	"domoticz2talkops/pkg/domoticz"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// DomoticzActor serializes access to the Domoticz HTTP API. Requests run as
// background tasks so the actor never blocks its mailbox on the network.
type DomoticzActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	client   domoticz.Client
	timeout  time.Duration
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewDomoticzActor(client domoticz.Client, timeout time.Duration, logger *zap.Logger) *DomoticzActor {
	act := &DomoticzActor{
		client:   client,
		timeout:  timeout,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_DOMOTICZ, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *DomoticzActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *DomoticzActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("domoticz@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_DOMOTICZ,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetVersionRequest:
		state.logger.Debug("domoticz@default: GetVersionRequest")
		runTask(state, ctx, msg, state.getVersion, func(err error) domain.GetVersionResponse {
			return domain.GetVersionResponse{ActorResponseMixIn: errorResponse(err)}
		})
	case domain.GetSettingsRequest:
		state.logger.Debug("domoticz@default: GetSettingsRequest")
		runTask(state, ctx, msg, state.getSettings, func(err error) domain.GetSettingsResponse {
			return domain.GetSettingsResponse{ActorResponseMixIn: errorResponse(err)}
		})
	case domain.GetFloorPlansRequest:
		state.logger.Debug("domoticz@default: GetFloorPlansRequest")
		runTask(state, ctx, msg, state.getFloorPlans, func(err error) domain.GetFloorPlansResponse {
			return domain.GetFloorPlansResponse{ActorResponseMixIn: errorResponse(err)}
		})
	case domain.GetFloorPlanPlansRequest:
		state.logger.Debug("domoticz@default: GetFloorPlanPlansRequest", zap.String("idx", msg.Idx))
		runTask(state, ctx, msg, func() (*domain.GetFloorPlanPlansResponse, error) {
			return state.getFloorPlanPlans(msg.Idx)
		}, func(err error) domain.GetFloorPlanPlansResponse {
			return domain.GetFloorPlanPlansResponse{ActorResponseMixIn: errorResponse(err), Idx: msg.Idx}
		})
	case domain.GetDevicesRequest:
		state.logger.Debug("domoticz@default: GetDevicesRequest")
		runTask(state, ctx, msg, state.getDevices, func(err error) domain.GetDevicesResponse {
			return domain.GetDevicesResponse{ActorResponseMixIn: errorResponse(err)}
		})
	case domain.GetScenesRequest:
		state.logger.Debug("domoticz@default: GetScenesRequest")
		runTask(state, ctx, msg, state.getScenes, func(err error) domain.GetScenesResponse {
			return domain.GetScenesResponse{ActorResponseMixIn: errorResponse(err)}
		})
	case domain.SwitchLightRequest:
		state.logger.Debug("domoticz@default: SwitchLightRequest",
			zap.Int("idx", msg.Idx), zap.String("command", msg.Command))
		runTask(state, ctx, msg, func() (*domain.SwitchLightResponse, error) {
			return &domain.SwitchLightResponse{
				ActorResponseMixIn: errorResponse(state.client.SwitchLight(msg.Idx, msg.Command)),
			}, nil
		}, func(err error) domain.SwitchLightResponse {
			return domain.SwitchLightResponse{ActorResponseMixIn: errorResponse(err)}
		})
	case domain.SwitchSceneRequest:
		state.logger.Debug("domoticz@default: SwitchSceneRequest",
			zap.Int("idx", msg.Idx), zap.String("command", msg.Command))
		runTask(state, ctx, msg, func() (*domain.SwitchSceneResponse, error) {
			return &domain.SwitchSceneResponse{
				ActorResponseMixIn: errorResponse(state.client.SwitchScene(msg.Idx, msg.Command)),
			}, nil
		}, func(err error) domain.SwitchSceneResponse {
			return domain.SwitchSceneResponse{ActorResponseMixIn: errorResponse(err)}
		})
	default:
		state.logger.Debug("domoticz@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *DomoticzActor) WaitingDomoticz(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("domoticz@WaitingDomoticz backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("domoticz@WaitingDomoticz stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// runTask launches fn off-thread and parks the actor until its result comes
// back, replying to the request sender either way.
func runTask[T any](state *DomoticzActor, ctx actor.Context, req domain.ActorRequest,
	fn func() (*T, error), recoverFn func(error) T) {
	sender := actorutil.ForRequest(req).ReplyTo(ctx)
	actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, fn),
		mapTaskResult[T](sender)).Recover(func(err error) backgroundTaskResult {
		return backgroundTaskResult{
			message: recoverFn(err),
			replyTo: sender,
		}
	}).WithTimeout(state.timeout).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.WaitingDomoticz)
}

func (a *DomoticzActor) getVersion() (*domain.GetVersionResponse, error) {
	version, err := a.client.GetVersion()
	if err != nil {
		a.logger.Error("get version failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetVersionResponse{Version: version.Version}, nil
}

func (a *DomoticzActor) getSettings() (*domain.GetSettingsResponse, error) {
	settings, err := a.client.GetSettings()
	if err != nil {
		a.logger.Error("get settings failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetSettingsResponse{Settings: *settings}, nil
}

func (a *DomoticzActor) getFloorPlans() (*domain.GetFloorPlansResponse, error) {
	plans, err := a.client.GetFloorPlans()
	if err != nil {
		a.logger.Error("get floorplans failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetFloorPlansResponse{FloorPlans: plans}, nil
}

func (a *DomoticzActor) getFloorPlanPlans(idx string) (*domain.GetFloorPlanPlansResponse, error) {
	plans, err := a.client.GetFloorPlanPlans(idx)
	if err != nil {
		a.logger.Error("get floorplan plans failed", zap.String("idx", idx), zap.Error(err))
		return nil, err
	}
	return &domain.GetFloorPlanPlansResponse{Idx: idx, Plans: plans}, nil
}

func (a *DomoticzActor) getDevices() (*domain.GetDevicesResponse, error) {
	devices, err := a.client.GetDevices()
	if err != nil {
		a.logger.Error("get devices failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetDevicesResponse{Devices: devices}, nil
}

func (a *DomoticzActor) getScenes() (*domain.GetScenesResponse, error) {
	scenes, err := a.client.GetScenes()
	if err != nil {
		a.logger.Error("get scenes failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetScenesResponse{Scenes: scenes}, nil
}

func errorResponse(err error) domain.ActorResponseMixIn {
	return domain.ActorResponseMixIn{ResponseError: err}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
