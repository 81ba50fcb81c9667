package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestRequestBuilders(t *testing.T) {
	req := NewRegisterRequest("a@example.com", "Alice")
	assert.Equal(t, "a@example.com", StringField(req, FieldEmail))
	assert.Equal(t, "Alice", StringField(req, FieldDisplayName))

	req = NewCreateFreeRequest("Bob")
	assert.Equal(t, "Bob", StringField(req, FieldDisplayName))
	assert.Equal(t, "", StringField(req, FieldEmail))
}

func TestNewReply(t *testing.T) {
	reply := NewReply("notice", "secret")
	assert.Equal(t, "notice", StringField(reply, FieldEphemeral))
	assert.Equal(t, "secret", StringField(reply, FieldPrivate))
}

func TestStringField_NonString(t *testing.T) {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldEmail: structpb.NewNumberValue(42),
	}}
	assert.Equal(t, "", StringField(s, FieldEmail))
	assert.Equal(t, "", StringField(nil, FieldEmail))
}
