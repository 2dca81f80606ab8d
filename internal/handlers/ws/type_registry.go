package ws

import (
	"reflect"
)

var typeRegistry = map[string]reflect.Type{}

func init() {
	// Register all client-emitted event types
	RegisterType(&EventJoinChat{})
	RegisterType(&EventSendMessage{})
	RegisterType(&EventEditMessage{})
	RegisterType(&EventDeleteMessage{})
	RegisterType(&EventTyping{})
	RegisterType(&EventStopTyping{})
	RegisterType(&MessagePing{})
	RegisterType(&MessagePong{})
}

func RegisterType(msg Message) {
	typeRegistry[msg.GetType()] = reflect.TypeOf(msg).Elem()
}

// GetTypeRegistry returns the type registry for testing
func GetTypeRegistry() map[string]reflect.Type {
	return typeRegistry
}
