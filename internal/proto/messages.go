package proto

import "google.golang.org/protobuf/types/known/structpb"

// NewRegisterRequest builds the Register request message.
func NewRegisterRequest(email, displayName string) *structpb.Struct {
	return stringStruct(map[string]string{
		FieldEmail:       email,
		FieldDisplayName: displayName,
	})
}

// NewCreateFreeRequest builds the CreateFree request message.
func NewCreateFreeRequest(displayName string) *structpb.Struct {
	return stringStruct(map[string]string{FieldDisplayName: displayName})
}

// NewReply builds a reply carrying the visible notice and the direct message.
func NewReply(ephemeral, private string) *structpb.Struct {
	return stringStruct(map[string]string{
		FieldEphemeral: ephemeral,
		FieldPrivate:   private,
	})
}

// StringField returns the string value of key, or "" when it is absent or
// not a string.
func StringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func stringStruct(fields map[string]string) *structpb.Struct {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		out.Fields[k] = structpb.NewStringValue(v)
	}
	return out
}
