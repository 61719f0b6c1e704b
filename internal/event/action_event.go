package event

import "log/slog"

// SubscribeLogging attaches the log-line subscribers for every notification
// a session emits.
func SubscribeLogging(b *Bus) {
	b.Subscribe(EventJump, JumpEventHandler)
	b.Subscribe(EventKick, KickEventHandler)
	b.Subscribe(EventSprint, SprintEventHandler)
	b.Subscribe(EventJoin, JoinEventHandler)
}

func JumpEventHandler(event any) {
	jump, ok := event.(*JumpEvent)
	if !ok {
		slog.Error("Invalid event type for JumpEventHandler")
		return
	}
	slog.Debug("Jump", "player", jump.Player, "pos", jump.Position, "velocity", jump.Velocity)
}

func KickEventHandler(event any) {
	kick, ok := event.(*KickEvent)
	if !ok {
		slog.Error("Invalid event type for KickEventHandler")
		return
	}
	slog.Info("Kick action", "player", kick.Player, "pos", kick.Position, "facing", kick.Facing)
}

func SprintEventHandler(event any) {
	sprint, ok := event.(*SprintEvent)
	if !ok {
		slog.Error("Invalid event type for SprintEventHandler")
		return
	}
	if sprint.Pressed {
		slog.Info("Sprint pressed", "player", sprint.Player)
	} else {
		slog.Info("Sprint released", "player", sprint.Player)
	}
}

func JoinEventHandler(event any) {
	join, ok := event.(*JoinEvent)
	if !ok {
		slog.Error("Invalid event type for JoinEventHandler")
		return
	}
	slog.Info("Player joined the game", "player", join.Player, "index", join.Index, "team", join.Team, "color", join.Color)
}
