package actor

import (
	"fmt"
	"strconv"
	"time"

	"domoticz2talkops/internal/config"
	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/internal/core/service"
	. "domoticz2talkops/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// PollerActor drives the poll cycle: version, settings, floorplans, plans per
// floor, devices and scenes, in that order. A cycle either completes and
// publishes one InstructionsUpdatedEvent, or fails and publishes nothing.
type PollerActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	domoticzActor *actor.PID
	config        *config.Config
	eventStream   *eventstream.EventStream

	cancelTimer scheduler.CancelFunc
	cycle       pollCycle

	logger *zap.Logger
}

type pollTick struct {
}

// pollCycle accumulates one cycle's fetches. It is reset on every tick so a
// failed cycle never leaks partial state into the next one.
type pollCycle struct {
	version       string
	unit          service.TemperatureUnit
	floors        []domain.Floor
	rooms         []domain.Room
	pendingFloors []domain.Floor
	lights        []domain.Light
	shutters      []domain.Shutter
	sensors       []domain.SensorReading
	scenes        []domain.Scene
}

func NewPollerActor(config *config.Config, domoticzActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *PollerActor {
	act := &PollerActor{
		config:        config,
		domoticzActor: domoticzActor,
		behavior:      actor.NewBehavior(),
		stash:         &Stash{},
		logger:        ActorLogger(domain.ACTOR_ID_POLLER, logger),
		eventStream:   eventStream,
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *PollerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poller@default started")
		state.scheduler = scheduler.NewTimerScheduler(ctx)
		ctx.Send(ctx.Self(), pollTick{})
	case domain.ActorHealthRequest:
		state.logger.Debug("poller@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "idle",
		})
	case pollTick:
		state.logger.Debug("poller@default tick")
		// a tick may arrive while a manually triggered cycle is pending
		if state.cancelTimer != nil {
			state.cancelTimer()
			state.cancelTimer = nil
		}
		state.cycle = pollCycle{}
		state.request(ctx, domain.GetVersionRequest{}, func(err error) any {
			return domain.GetVersionResponse{ActorResponseMixIn: errorResponse(err)}
		})
		state.behavior.Become(state.WaitingVersionReceive)
	default:
		state.logger.Debug("poller@default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *PollerActor) WaitingVersionReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetVersionResponse:
		if msg.HasResponseError() {
			state.failCycle(ctx, "version", msg.GetResponseError())
			return
		}
		state.logger.Debug("poller@waitingVersion GetVersionResponse", zap.String("version", msg.Version))
		state.cycle.version = msg.Version
		state.request(ctx, domain.GetSettingsRequest{}, func(err error) any {
			return domain.GetSettingsResponse{ActorResponseMixIn: errorResponse(err)}
		})
		state.behavior.Become(state.WaitingSettingsReceive)
	default:
		state.logger.Debug("poller@waitingVersion: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingSettingsReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetSettingsResponse:
		if msg.HasResponseError() {
			state.failCycle(ctx, "settings", msg.GetResponseError())
			return
		}
		state.logger.Debug("poller@waitingSettings GetSettingsResponse")
		state.cycle.unit = service.TemperatureUnitFromSettings(msg.Settings)
		state.request(ctx, domain.GetFloorPlansRequest{}, func(err error) any {
			return domain.GetFloorPlansResponse{ActorResponseMixIn: errorResponse(err)}
		})
		state.behavior.Become(state.WaitingFloorPlansReceive)
	default:
		state.logger.Debug("poller@waitingSettings: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingFloorPlansReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetFloorPlansResponse:
		if msg.HasResponseError() {
			state.failCycle(ctx, "floorplans", msg.GetResponseError())
			return
		}
		state.logger.Debug("poller@waitingFloorPlans GetFloorPlansResponse", zap.Int("count", len(msg.FloorPlans)))
		for _, fp := range msg.FloorPlans {
			if floor, ok := service.ClassifyFloor(fp); ok {
				state.cycle.floors = append(state.cycle.floors, floor)
			}
		}
		state.cycle.pendingFloors = state.cycle.floors
		state.requestNextPlans(ctx)
	default:
		state.logger.Debug("poller@waitingFloorPlans: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// requestNextPlans pops the next floor and fetches its rooms, or moves on to
// devices when every floor has been visited.
func (state *PollerActor) requestNextPlans(ctx actor.Context) {
	if len(state.cycle.pendingFloors) == 0 {
		state.request(ctx, domain.GetDevicesRequest{}, func(err error) any {
			return domain.GetDevicesResponse{ActorResponseMixIn: errorResponse(err)}
		})
		state.behavior.Become(state.WaitingDevicesReceive)
		return
	}
	next := state.cycle.pendingFloors[0]
	state.cycle.pendingFloors = state.cycle.pendingFloors[1:]
	idx := strconv.Itoa(next.ID)
	state.request(ctx, domain.GetFloorPlanPlansRequest{Idx: idx}, func(err error) any {
		return domain.GetFloorPlanPlansResponse{ActorResponseMixIn: errorResponse(err), Idx: idx}
	})
	state.behavior.Become(state.WaitingPlansReceive)
}

func (state *PollerActor) WaitingPlansReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetFloorPlanPlansResponse:
		if msg.HasResponseError() {
			state.failCycle(ctx, "plans", msg.GetResponseError())
			return
		}
		state.logger.Debug("poller@waitingPlans GetFloorPlanPlansResponse",
			zap.String("idx", msg.Idx), zap.Int("count", len(msg.Plans)))
		floorID, err := strconv.Atoi(msg.Idx)
		if err != nil {
			state.failCycle(ctx, "plans", err)
			return
		}
		for _, plan := range msg.Plans {
			if room, ok := service.ClassifyRoom(plan, floorID); ok {
				state.cycle.rooms = append(state.cycle.rooms, room)
			}
		}
		state.requestNextPlans(ctx)
	default:
		state.logger.Debug("poller@waitingPlans: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingDevicesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDevicesResponse:
		if msg.HasResponseError() {
			state.failCycle(ctx, "devices", msg.GetResponseError())
			return
		}
		state.logger.Debug("poller@waitingDevices GetDevicesResponse", zap.Int("count", len(msg.Devices)))
		for _, dev := range msg.Devices {
			classified := service.ClassifyDevice(dev, state.cycle.unit)
			if classified.Light != nil {
				state.cycle.lights = append(state.cycle.lights, *classified.Light)
			}
			if classified.Shutter != nil {
				state.cycle.shutters = append(state.cycle.shutters, *classified.Shutter)
			}
			state.cycle.sensors = append(state.cycle.sensors, classified.Sensors...)
		}
		state.request(ctx, domain.GetScenesRequest{}, func(err error) any {
			return domain.GetScenesResponse{ActorResponseMixIn: errorResponse(err)}
		})
		state.behavior.Become(state.WaitingScenesReceive)
	default:
		state.logger.Debug("poller@waitingDevices: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingScenesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetScenesResponse:
		if msg.HasResponseError() {
			state.failCycle(ctx, "scenes", msg.GetResponseError())
			return
		}
		state.logger.Debug("poller@waitingScenes GetScenesResponse", zap.Int("count", len(msg.Scenes)))
		for _, scene := range msg.Scenes {
			if s, ok := service.ClassifyScene(scene); ok {
				state.cycle.scenes = append(state.cycle.scenes, s)
			}
		}
		state.publishSnapshot(ctx)
		state.finishCycle(ctx)
	default:
		state.logger.Debug("poller@waitingScenes: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) publishSnapshot(ctx actor.Context) {
	snapshot := domain.Snapshot{
		ControllerVersion: state.cycle.version,
		Floors:            state.cycle.floors,
		Rooms:             state.cycle.rooms,
		Lights:            state.cycle.lights,
		Shutters:          state.cycle.shutters,
		Sensors:           state.cycle.sensors,
		Scenes:            state.cycle.scenes,
	}
	instructions, err := service.RenderInstructions(snapshot)
	if err != nil {
		state.logger.Error("poller: could not render instructions", zap.Error(err))
		return
	}
	state.eventStream.Publish(domain.InstructionsUpdatedEvent{
		ControllerVersion: snapshot.ControllerVersion,
		Instructions:      instructions,
		FunctionSchemas:   service.ActiveFunctionSchemas(snapshot),
	})
}

// failCycle drops the cycle and schedules the next one. Partial results are
// never published.
func (state *PollerActor) failCycle(ctx actor.Context, step string, err error) {
	state.logger.Error("poller: poll cycle failed", zap.String("step", step), zap.Error(err))
	state.finishCycle(ctx)
}

func (state *PollerActor) finishCycle(ctx actor.Context) {
	state.cycle = pollCycle{}
	state.behavior.Become(state.DefaultReceive)
	state.stash.UnstashAll(ctx)
	state.cancelTimer = state.scheduler.RequestOnce(
		time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), pollTick{})
}

func (state *PollerActor) request(ctx actor.Context, msg any, recover func(error) any) {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.domoticzActor, msg, state.requestTimeout()), recover)
}

func (state *PollerActor) requestTimeout() time.Duration {
	return time.Duration(state.config.Domoticz.RequestTimeoutMillis)*time.Millisecond + 2*time.Second
}

func errorResponse(err error) domain.ActorResponseMixIn {
	return domain.ActorResponseMixIn{ResponseError: err}
}
