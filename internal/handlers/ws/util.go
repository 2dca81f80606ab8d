package ws

import "encoding/json"

// Serialize wraps an event in the wire envelope.
func Serialize(msg Message) ([]byte, error) {
	payload, err := ToJson(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(SerializedMessage{Type: msg.GetType(), Payload: payload})
}

// Deserialize parses a raw frame into a typed event.
func Deserialize(jsonBytes []byte) (Message, error) {
	var wrapper SerializedMessage
	if err := json.Unmarshal(jsonBytes, &wrapper); err != nil {
		return nil, err
	}
	return DeserializeSerializedMessage(&wrapper)
}

func DeserializeSerializedMessage(wrapper *SerializedMessage) (Message, error) {
	msg, err := CreateMessage(wrapper.Type, typeRegistry)
	if err != nil {
		return nil, err
	}
	if err := FromJson(wrapper.Payload, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
