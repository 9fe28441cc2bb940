package shell

// Apply returns the state after ev. It is the only way State changes.
func Apply(s State, ev Event) State {
	next := s

	switch ev.Type {
	case EvtSnapshotLoaded:
		// Replace wholesale; a successful fetch clears the banner.
		next.Snapshot = ev.Snapshot
		next.Error = ""

	case EvtFetchFailed, EvtActionFailed:
		// Prior snapshot stays on screen.
		next.Error = ev.Message

	case EvtNotified:
		next.Notification = Notification{Show: true, Message: ev.Message, Severity: ev.Severity}

	case EvtNotificationClosed:
		next.Notification.Show = false

	case EvtRoomSelected:
		p := ev.Position
		next.Selected = &p

	case EvtAutoRunChanged:
		next.AutoRunning = ev.On

	case EvtLoadingChanged:
		next.Loading = ev.On

	case EvtRedirectRequested:
		next.Redirect = ev.Message
		next.RedirectSeq++
	}

	return next
}

// Reduce folds events over s in order.
func Reduce(s State, events []Event) State {
	for _, ev := range events {
		s = Apply(s, ev)
	}
	return s
}

func notified(n Notification) Event {
	return Event{Type: EvtNotified, Message: n.Message, Severity: n.Severity}
}
