package vo

import "time"

// ProgressSnapshot 最近一次进度通知的内容。序号单调递增，
// 新快照总是覆盖旧快照，只保留最新一条用于上报。
type ProgressSnapshot struct {
	Seq            int64     `json:"seq"`
	Line           string    `json:"line"`
	RenditionIndex int       `json:"rendition_index"` // -1 表示未知
	At             time.Time `json:"at"`
}
