package vo

// JobState 转换任务状态
type JobState string

const (
	StateAccepted    JobState = "accepted"
	StatePlanning    JobState = "planning"
	StateTranscoding JobState = "transcoding"
	StateAssembling  JobState = "assembling"
	StatePublishing  JobState = "publishing"
	StateSucceeded   JobState = "succeeded"
	StateFailed      JobState = "failed"
)

// String 返回状态字符串
func (s JobState) String() string {
	return string(s)
}

// IsTerminal 检查是否为终态
func (s JobState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

var stateOrder = map[JobState]int{
	StateAccepted:    0,
	StatePlanning:    1,
	StateTranscoding: 2,
	StateAssembling:  3,
	StatePublishing:  4,
	StateSucceeded:   5,
	StateFailed:      5,
}

// CanTransition 检查状态迁移是否合法。状态只能前进，
// Failed 可从任意非终态到达，终态不再迁移。
func (s JobState) CanTransition(to JobState) bool {
	from, ok := stateOrder[s]
	if !ok {
		return false
	}
	dest, ok := stateOrder[to]
	if !ok {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return dest == from+1
}
