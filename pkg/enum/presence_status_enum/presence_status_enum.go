package presence_status_enum

const (
	ONLINE  = "online"
	OFFLINE = "offline"
)
