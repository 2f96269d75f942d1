package types

type HeartbeatRequest struct {
	ReaderID        string `json:"reader_id"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	UptimeSeconds   uint64 `json:"uptime_s,omitempty"`
	DoorClosed      *bool  `json:"door_closed,omitempty"`
	RSSIDbm         *int   `json:"rssi_dbm,omitempty"`
	IP              string `json:"ip,omitempty"`
	FreeHeapBytes   uint32 `json:"free_heap_bytes,omitempty"`
	Sequence        uint32 `json:"seq,omitempty"`
}

type HeartbeatResponse struct {
	OK         bool   `json:"ok"`
	Known      bool   `json:"known"`
	ReaderID   string `json:"reader_id"`
	ServerTime string `json:"server_time"`
}
