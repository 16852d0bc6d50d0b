package quest

import (
	"encoding/json"
	"fmt"
)

// objectiveState is the serialized form of one ObjectiveProgress.
type objectiveState struct {
	State   string `json:"state"`
	Outcome string `json:"outcome,omitempty"`
}

// progressBlob is the serialized form of an Instance: the attempt ordinal
// plus one entry per objective, positionally aligned with the quest's
// objective list.
type progressBlob struct {
	Attempt    int              `json:"attempt"`
	Objectives []objectiveState `json:"objectives"`
}

// encodeInstance serializes an instance into the store's progress blob.
func encodeInstance(in *Instance) (string, error) {
	blob := progressBlob{
		Attempt:    in.attempt,
		Objectives: make([]objectiveState, len(in.progress)),
	}
	for i, p := range in.progress {
		blob.Objectives[i] = objectiveState{
			State:   p.state.String(),
			Outcome: p.outcome,
		}
	}
	raw, err := json.Marshal(blob)
	if err != nil {
		return "", fmt.Errorf("encode instance %s/%s: %w", in.quest.name, in.quester, err)
	}
	return string(raw), nil
}

// decodeInstance rebuilds an instance from a progress blob. The blob must
// carry exactly one entry per quest objective, and resolved entries must
// name outcomes the objective actually has.
func decodeInstance(q *Quest, quester, raw string) (*Instance, error) {
	var blob progressBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, fmt.Errorf("decode instance %s/%s: %w", q.name, quester, err)
	}
	if len(blob.Objectives) != len(q.objectives) {
		return nil, fmt.Errorf("decode instance %s/%s: %d objective states, quest has %d",
			q.name, quester, len(blob.Objectives), len(q.objectives))
	}
	inst := newInstance(q, quester, blob.Attempt)
	for i, st := range blob.Objectives {
		p := inst.progress[i]
		switch st.State {
		case StatePending.String():
		case StateInProgress.String():
			p.state = StateInProgress
		case StateResolved.String():
			if p.objective.Outcome(st.Outcome) == nil {
				return nil, fmt.Errorf("decode instance %s/%s, objective %q: outcome %q: %w",
					q.name, quester, p.objective.name, st.Outcome, ErrUnknownOutcome)
			}
			p.state = StateResolved
			p.outcome = st.Outcome
		default:
			return nil, fmt.Errorf("decode instance %s/%s, objective %q: unknown state %q",
				q.name, quester, p.objective.name, st.State)
		}
	}
	return inst, nil
}
