package constants

const (
	CHANNEL_SIZE         = 100  // 通道大小
	HISTORY_LIMIT        = 50   // 进入房间时推送的历史消息条数
	MAX_HISTORY_LIMIT    = 200  // 历史消息单次查询上限
	REDIS_TIMEOUT        = 60   // 联系人缓存过期时间（分钟）
	WS_MAX_MESSAGE_BYTES = 8192 // 单条 websocket 消息最大字节数
	MAX_IDLE_MINUTES     = 10   // 连接最大空闲时间（分钟），需大于前端心跳间隔
)

// Redis 键前缀
const (
	CONTACT_RELATION_KEY = "contact_relation:user:" // contact_relation:user:<id>，好友 ID 集合
	PRESENCE_ONLINE_KEY  = "presence:online"        // 在线用户 ID 集合
)
