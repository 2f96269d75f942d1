// Package wire converts between the generated reader messages
// (api/portunus/v1) and the domain types the services work with.
package wire

import (
	"time"

	pb "github.com/BrandonDHaskell/Portunus/policyd/api/portunus/v1"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

// ── Access ───────────────────────────────────────────────────────────────────

// AccessRequestFromProto maps a zero timestamp_ms to a zero Timestamp so
// the service stamps the request on arrival.
func AccessRequestFromProto(p *pb.AccessRequest) types.AccessRequest {
	req := types.AccessRequest{
		BadgeCode:  p.GetBadgeCode(),
		ReaderID:   p.GetReaderId(),
		ResourceID: p.GetResourceId(),
	}
	if ms := p.GetTimestampMs(); ms != 0 {
		req.Timestamp = time.UnixMilli(ms).UTC()
	}
	if p.DoorClosed != nil {
		v := p.GetDoorClosed()
		req.DoorClosed = &v
	}
	return req
}

func AccessRequestToProto(r types.AccessRequest) *pb.AccessRequest {
	p := &pb.AccessRequest{
		BadgeCode:  r.BadgeCode,
		ReaderId:   r.ReaderID,
		ResourceId: r.ResourceID,
	}
	if !r.Timestamp.IsZero() {
		p.TimestampMs = r.Timestamp.UnixMilli()
	}
	if r.DoorClosed != nil {
		v := *r.DoorClosed
		p.DoorClosed = &v
	}
	return p
}

func AccessResponseToProto(r types.AccessResponse) *pb.AccessResponse {
	return &pb.AccessResponse{
		ReaderId: r.ReaderID,
		Granted:  r.Granted,
		Message:  r.Message,
		Code:     r.Code,
		Profile:  r.Profile,
	}
}

func AccessResponseFromProto(p *pb.AccessResponse) types.AccessResponse {
	return types.AccessResponse{
		ReaderID: p.GetReaderId(),
		Granted:  p.GetGranted(),
		Message:  p.GetMessage(),
		Code:     p.GetCode(),
		Profile:  p.GetProfile(),
	}
}

// ── Heartbeat ────────────────────────────────────────────────────────────────

func HeartbeatRequestFromProto(p *pb.HeartbeatRequest) types.HeartbeatRequest {
	req := types.HeartbeatRequest{
		ReaderID:        p.GetReaderId(),
		FirmwareVersion: p.GetFirmwareVersion(),
		UptimeSeconds:   p.GetUptimeS(),
		IP:              p.GetIp(),
		FreeHeapBytes:   p.GetFreeHeapBytes(),
		Sequence:        p.GetSeq(),
	}
	if p.DoorClosed != nil {
		v := p.GetDoorClosed()
		req.DoorClosed = &v
	}
	if p.RssiDbm != nil {
		v := int(p.GetRssiDbm())
		req.RSSIDbm = &v
	}
	return req
}

func HeartbeatRequestToProto(r types.HeartbeatRequest) *pb.HeartbeatRequest {
	p := &pb.HeartbeatRequest{
		ReaderId:        r.ReaderID,
		FirmwareVersion: r.FirmwareVersion,
		UptimeS:         r.UptimeSeconds,
		Ip:              r.IP,
		FreeHeapBytes:   r.FreeHeapBytes,
		Seq:             r.Sequence,
	}
	if r.DoorClosed != nil {
		v := *r.DoorClosed
		p.DoorClosed = &v
	}
	if r.RSSIDbm != nil {
		v := int32(*r.RSSIDbm)
		p.RssiDbm = &v
	}
	return p
}

func HeartbeatResponseToProto(r types.HeartbeatResponse) *pb.HeartbeatResponse {
	return &pb.HeartbeatResponse{
		Ok:         r.OK,
		Known:      r.Known,
		ReaderId:   r.ReaderID,
		ServerTime: r.ServerTime,
	}
}

func HeartbeatResponseFromProto(p *pb.HeartbeatResponse) types.HeartbeatResponse {
	return types.HeartbeatResponse{
		OK:         p.GetOk(),
		Known:      p.GetKnown(),
		ReaderID:   p.GetReaderId(),
		ServerTime: p.GetServerTime(),
	}
}
