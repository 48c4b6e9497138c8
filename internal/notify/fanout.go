package notify

import (
	"context"
	"sync"

	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/repository"
)

// Fanout resolves a notification's audience and dispatches one push
// per reachable recipient. Delivery is entirely best-effort: a missing
// token just excludes that recipient, a failed send is logged and
// swallowed, and the call never fails because of per-recipient
// outcomes.
type Fanout struct {
	members repository.MemberRepository
	tokens  repository.TokenRepository
	sender  Sender
	log     *logger.Logger
}

func NewFanout(members repository.MemberRepository, tokens repository.TokenRepository, sender Sender, log *logger.Logger) *Fanout {
	return &Fanout{
		members: members,
		tokens:  tokens,
		sender:  sender,
		log:     log,
	}
}

// Result summarizes one fan-out call.
type Result struct {
	Targets   int // roster members minus excluded
	Attempted int // targets with a resolvable token
	Delivered int // attempts that succeeded
}

// NotifyTeamExcept sends the notification to every roster member
// except the excluded ids. All dispatches run in parallel and the call
// returns only after every attempt settles. Ordering between
// recipients is not guaranteed and repeated calls fan out
// independently.
func (f *Fanout) NotifyTeamExcept(ctx context.Context, excludedIDs []string, title, body string, data map[string]string) Result {
	var res Result

	members, err := f.members.List()
	if err != nil {
		f.log.Error("fan-out roster read failed", "error", err)
		return res
	}

	excluded := make(map[string]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}

	var tokens []string
	for _, m := range members {
		if _, skip := excluded[m.ID]; skip {
			continue
		}
		res.Targets++
		row, err := f.tokens.Find(m.ID)
		if err != nil || row.Token == "" {
			// No registered device; not an error, just not a recipient.
			continue
		}
		tokens = append(tokens, row.Token)
	}

	res.Attempted = len(tokens)
	if len(tokens) == 0 {
		f.log.Info("fan-out found no reachable recipients", "targets", res.Targets)
		return res
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			if _, err := f.sender.Send(ctx, Message{
				Token: token,
				Title: title,
				Body:  body,
				Data:  data,
			}); err != nil {
				f.log.Warn("push delivery failed", "error", err)
				return
			}
			mu.Lock()
			delivered++
			mu.Unlock()
		}(token)
	}
	wg.Wait()

	res.Delivered = delivered
	f.log.Info("fan-out complete",
		"targets", res.Targets,
		"attempted", res.Attempted,
		"delivered", res.Delivered,
	)
	return res
}
