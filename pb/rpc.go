// Package pb holds the messages of rpc.proto. They are marshaled with
// github.com/gogo/protobuf/proto through their struct tags.
package pb

import (
	proto "github.com/gogo/protobuf/proto"
)

// KindInternal marks a response whose failure is not an arithmetic error
const KindInternal = "Internal"

type Request struct {
	Id           uint64 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Op           string `protobuf:"bytes,2,opt,name=op,proto3" json:"op,omitempty"`
	Operand1     string `protobuf:"bytes,3,opt,name=operand1,proto3" json:"operand1,omitempty"`
	Operand2     string `protobuf:"bytes,4,opt,name=operand2,proto3" json:"operand2,omitempty"`
	InputFormat  string `protobuf:"bytes,5,opt,name=input_format,json=inputFormat,proto3" json:"input_format,omitempty"`
	OutputFormat string `protobuf:"bytes,6,opt,name=output_format,json=outputFormat,proto3" json:"output_format,omitempty"`
	M            uint32 `protobuf:"varint,7,opt,name=m,proto3" json:"m,omitempty"`
}

func (m *Request) Reset()         { *m = Request{} }
func (m *Request) String() string { return proto.CompactTextString(m) }
func (*Request) ProtoMessage()    {}

func (m *Request) GetId() uint64 {
	if m != nil {
		return m.Id
	}
	return 0
}

func (m *Request) GetOp() string {
	if m != nil {
		return m.Op
	}
	return ""
}

func (m *Request) GetM() uint32 {
	if m != nil {
		return m.M
	}
	return 0
}

type Response struct {
	Id        uint64 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Result    string `protobuf:"bytes,2,opt,name=result,proto3" json:"result,omitempty"`
	ErrorKind string `protobuf:"bytes,3,opt,name=error_kind,json=errorKind,proto3" json:"error_kind,omitempty"`
	Message   string `protobuf:"bytes,4,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Response) Reset()         { *m = Response{} }
func (m *Response) String() string { return proto.CompactTextString(m) }
func (*Response) ProtoMessage()    {}

func (m *Response) GetId() uint64 {
	if m != nil {
		return m.Id
	}
	return 0
}

func (m *Response) GetErrorKind() string {
	if m != nil {
		return m.ErrorKind
	}
	return ""
}

// Failed reports whether the response carries an error instead of a result
func (m *Response) Failed() bool {
	return m.GetErrorKind() != ""
}

func init() {
	proto.RegisterType((*Request)(nil), "gf2m.pb.Request")
	proto.RegisterType((*Response)(nil), "gf2m.pb.Response")
}
