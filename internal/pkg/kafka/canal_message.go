package kafka

import (
	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Canal 事件类型
const (
	CanalInsert = "INSERT"
	CanalUpdate = "UPDATE"
	CanalDelete = "DELETE"
)

// errSkipMessage 与当前消费者无关的消息，直接确认
var errSkipMessage = errors.New("skip message")

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据，只包含发生变化的列
	Old []map[string]interface{} `json:"old"`

	SqlType   map[string]int    `json:"sqlType"`
	MysqlType map[string]string `json:"mysqlType"`
}

// ToCanalMessage 将 kafka 消息转换为 canal 消息结构体，表名不符或 DDL 返回 errSkipMessage
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		return nil, errors.Wrapf(err, "unmarshal canal message at offset %d", msg.Offset)
	}

	if canalMsg.IsDDL || canalMsg.Table != tableName || len(canalMsg.Data) == 0 {
		return nil, errSkipMessage
	}

	return &canalMsg, nil
}

// ChangedColumns 返回 UPDATE 事件中发生变化的列
func (m *CanalMessage) ChangedColumns() map[string]struct{} {
	cols := make(map[string]struct{})
	for _, old := range m.Old {
		for k := range old {
			cols[k] = struct{}{}
		}
	}
	return cols
}
