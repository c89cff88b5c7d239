package dprof

import "github.com/avalon-vm/panda/serializer"

// ProtocolVersion is the handshake value every client's first message must
// carry (ipc_message_protocol.h's VERSION).
const ProtocolVersion = "v1"

// VersionMsg is the payload of a MessageVersion frame.
type VersionMsg struct {
	Version string
}

func (v *VersionMsg) Encode() []byte {
	return serializer.StructToBuffer(nil, serializer.StringField(&v.Version))
}

func DecodeVersionMsg(data []byte) (VersionMsg, error) {
	var v VersionMsg
	if _, err := serializer.BufferToStruct(data, true, serializer.StringField(&v.Version)); err != nil {
		return VersionMsg{}, err
	}
	return v, nil
}

// AppInfo is the payload of a MessageAppInfo frame: the connecting
// process's identity.
type AppInfo struct {
	AppName string
	Hash    uint64
	PID     uint32
}

func (a *AppInfo) Encode() []byte {
	return serializer.StructToBuffer(nil,
		serializer.StringField(&a.AppName),
		serializer.Uint64Field(&a.Hash),
		serializer.Uint32Field(&a.PID),
	)
}

func DecodeAppInfo(data []byte) (AppInfo, error) {
	var a AppInfo
	if _, err := serializer.BufferToStruct(data, true,
		serializer.StringField(&a.AppName),
		serializer.Uint64Field(&a.Hash),
		serializer.Uint32Field(&a.PID),
	); err != nil {
		return AppInfo{}, err
	}
	return a, nil
}

// FeatureData is the payload of one MessageFeatureData frame: a named
// blob of profiling data. A session may send any number of these after
// its AppInfo frame.
type FeatureData struct {
	Name string
	Data []byte
}

func (f *FeatureData) Encode() []byte {
	return serializer.StructToBuffer(nil,
		serializer.StringField(&f.Name),
		serializer.BytesField(&f.Data),
	)
}

func DecodeFeatureData(data []byte) (FeatureData, error) {
	var f FeatureData
	if _, err := serializer.BufferToStruct(data, true,
		serializer.StringField(&f.Name),
		serializer.BytesField(&f.Data),
	); err != nil {
		return FeatureData{}, err
	}
	return f, nil
}
