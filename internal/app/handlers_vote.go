package app

import (
	"opinio/internal/api"
	"opinio/internal/event"
	"opinio/internal/state"
	"opinio/pkg/types"
)

func (h *handlers) registerVotes(b *event.Bus) {
	event.Handle(b, h.getVote)
	event.Handle(b, h.receiveVote)
	event.Handle(b, h.createVote)
	event.Handle(b, h.createVoteSuccess)
	event.Handle(b, h.deleteVote)
	event.Handle(b, h.deleteVoteSuccess)
	event.Handle(b, h.voteFailed)
	event.Handle(b, h.appendVote)
	event.Handle(b, h.removeVote)
}

// decodeList reads the envelope data as a list of T. A single object is
// accepted as a list of one.
func decodeList[T any](env api.Envelope) []T {
	var list []T
	if err := env.Decode(&list); err == nil {
		return list
	}
	var one T
	if err := env.Decode(&one); err == nil {
		return []T{one}
	}
	return nil
}

func voteLocked(r state.Reader) bool {
	locked, _ := state.As[bool](r, p(keyVoteLock))
	return locked
}

func (h *handlers) getVote(_ state.Reader, ev GetVote) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now().
		Later(backend(fxGetVote, ev.ID, func(env api.Envelope) event.Event {
			return ReceiveVote{ID: ev.ID, Data: env.Data}
		}))
}

func (h *handlers) receiveVote(_ state.Reader, ev ReceiveVote) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	data := toTree(ev.Data)
	if data == nil {
		data = []any{}
	}
	return event.Now(
		event.Set(p(keyVotes, ev.ID), data),
		success("vote data successfully loaded"),
	)
}

// createVote takes the vote lock and submits the vote. Only one vote request
// may be outstanding; a second one is refused with an INFO status.
func (h *handlers) createVote(r state.Reader, ev CreateVote) event.Result {
	msg := types.VoteMessage(ev)
	if err := require(ev.Kind(), "id", msg.ID); err != nil {
		return event.Fail(err)
	}
	if err := require(ev.Kind(), "opinion_github_handle", msg.Data.OpinionGithubHandle); err != nil {
		return event.Fail(err)
	}
	if voteLocked(r) {
		return event.Now(info("a vote is already in progress"))
	}
	return event.Now(info("voting..."), event.Emit(ToggleVoteLock{})).
		Later(event.Call(fxCreateVote, msg,
			func(env api.Envelope) event.Event {
				votes := decodeList[types.Vote](env)
				if len(votes) == 0 {
					vote := msg.Data
					vote.ID = firstNonEmpty(vote.ID, msg.VoteID, env.ID)
					votes = []types.Vote{vote}
				}
				return CreateVoteSuccess{ID: msg.ID, Data: votes}
			},
			func(err error) event.Event { return VoteFailed{Message: event.Message(err)} }))
}

func (h *handlers) createVoteSuccess(_ state.Reader, ev CreateVoteSuccess) event.Result {
	return event.Now(
		success("voted successfully"),
		event.Emit(AppendVote(ev)),
		event.Set(p(keyVoteLock), false),
	)
}

// deleteVote removes the vote locally, then asks the backend. The vote is
// restored if the backend refuses.
func (h *handlers) deleteVote(r state.Reader, ev DeleteVote) event.Result {
	msg := types.VoteMessage(ev)
	if err := require(ev.Kind(), "id", msg.ID); err != nil {
		return event.Fail(err)
	}
	if err := require(ev.Kind(), "vote id", firstNonEmpty(msg.VoteID, msg.Data.ID)); err != nil {
		return event.Fail(err)
	}
	if voteLocked(r) {
		return event.Now(info("a vote is already in progress"))
	}
	removed := msg.Data
	removed.ID = firstNonEmpty(msg.VoteID, removed.ID)
	return event.Now(info("deleting vote..."), event.Emit(RemoveVote(ev)), event.Emit(ToggleVoteLock{})).
		Later(event.Call(fxDeleteVote, msg,
			func(api.Envelope) event.Event { return DeleteVoteSuccess{} },
			func(err error) event.Event {
				return VoteFailed{Message: event.Message(err), ID: msg.ID, Restore: []types.Vote{removed}}
			}))
}

func (h *handlers) deleteVoteSuccess(state.Reader, DeleteVoteSuccess) event.Result {
	return event.Now(success("vote deleted successfully"), event.Set(p(keyVoteLock), false))
}

func (h *handlers) voteFailed(_ state.Reader, ev VoteFailed) event.Result {
	steps := []event.Step{event.Set(p(keyVoteLock), false)}
	if ev.ID != "" && len(ev.Restore) > 0 {
		steps = append(steps, event.Emit(AppendVote{ID: ev.ID, Data: ev.Restore}))
	}
	steps = append(steps, event.Emit(Error{Message: ev.Message}))
	return event.Now(steps...)
}

func (h *handlers) appendVote(_ state.Reader, ev AppendVote) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	items := treeSeq(ev.Data)
	return event.Now(event.Update(p(keyVotes, ev.ID), func(cur any) any {
		return merge(seqOf(cur), items, voteKey)
	}))
}

func (h *handlers) removeVote(_ state.Reader, ev RemoveVote) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	vote := ev.Data
	vote.ID = firstNonEmpty(ev.VoteID, vote.ID)
	k := voteKey(toTree(vote))
	return event.Now(event.Update(p(keyVotes, ev.ID), func(cur any) any {
		return remove(seqOf(cur), k, voteKey)
	}))
}
