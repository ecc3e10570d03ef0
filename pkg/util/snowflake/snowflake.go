package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化雪花算法节点，machineID 范围 0-1023
// 只有第一次调用生效
func Init(machineID int64) {
	nodeOnce.Do(func() {
		if machineID < 0 || machineID > 1023 {
			zap.L().Warn("invalid snowflake machine id, fallback to 1", zap.Int64("machineID", machineID))
			machineID = 1
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("init snowflake node failed", zap.Error(err))
		}
	})
}

// GenerateID 生成雪花 ID
func GenerateID() int64 {
	Init(1)
	return node.Generate().Int64()
}

// GenerateIDString 生成字符串形式的雪花 ID，供 JSON 使用避免精度丢失
func GenerateIDString() string {
	Init(1)
	return node.Generate().String()
}
