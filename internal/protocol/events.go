package protocol

// Inbound events.
const (
	EventCreateRoom     = "CREATE_ROOM"
	EventJoinRoom       = "JOIN_ROOM"
	EventLeaveRoom      = "LEAVE_ROOM"
	EventUpdateReady    = "UPDATE_READY"
	EventInitGame       = "INIT_GAME"
	EventUpdateProgress = "UPDATE_PROGRESS"
	EventGameTimeout    = "GAME_TIMEOUT"
)

// Outbound events.
const (
	EventUserWithSameNameAlreadyExist = "USER_WITH_SAME_NAME_ALREADY_EXIST"
	EventRoomWithSameNameAlreadyExist = "ROOM_WITH_SAME_NAME_ALREADY_EXIST"
	EventJoinRoomFailed               = "JOIN_ROOM_FAILED"
	EventUpdateRooms                  = "UPDATE_ROOMS"
	EventJoinRoomDone                 = "JOIN_ROOM_DONE"
	EventUpdateCurrentRoom            = "UPDATE_CURRENT_ROOM"
	EventStartTimer                   = "START_TIMER"
	EventStartGame                    = "START_GAME"
	EventFinishGame                   = "FINISH_GAME"
)
