package xqueue

import "encoding/json"

// Reply envelope exchanged with the external grading queue:
//
//	{ "return_code": 0 (success) / 1 (failure),
//	  "content":     <string payload, often itself JSON> }
const (
	ReturnCodeSuccess = 0
	ReturnCodeFailure = 1
)

// malformedReply is the fixed diagnostic returned whenever a payload
// cannot be decoded. Codec failures never propagate past this boundary.
const malformedReply = "unexpected reply from server"

type reply struct {
	ReturnCode int    `json:"return_code"`
	Content    string `json:"content"`
}

// QueueObject is the normalized form of an inbound queue item. Header and
// body are kept re-serialized as strings, with the queue name folded into
// the header.
type QueueObject struct {
	Header string `json:"xqueue_header"`
	Body   string `json:"xqueue_body"`
}

// ComposeReply encodes the outbound reply envelope.
func ComposeReply(success bool, content string) string {
	returnCode := ReturnCodeFailure
	if success {
		returnCode = ReturnCodeSuccess
	}
	b, _ := json.Marshal(reply{ReturnCode: returnCode, Content: content})
	return string(b)
}

// ParseReply decodes a reply envelope. Malformed input, including missing
// keys, yields (1, "unexpected reply from server") rather than an error.
func ParseReply(raw string) (int, string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return ReturnCodeFailure, malformedReply
	}

	rawCode, ok := fields["return_code"]
	if !ok {
		return ReturnCodeFailure, malformedReply
	}
	rawContent, ok := fields["content"]
	if !ok {
		return ReturnCodeFailure, malformedReply
	}

	var returnCode int
	if err := json.Unmarshal(rawCode, &returnCode); err != nil {
		return ReturnCodeFailure, malformedReply
	}
	var content string
	if err := json.Unmarshal(rawContent, &content); err != nil {
		return ReturnCodeFailure, malformedReply
	}

	return returnCode, content
}

// ParseQueueObject decodes an inbound queue item:
//
//	{ "xqueue_header": <JSON string>, "xqueue_body": <JSON string> }
//
// The header is augmented with the queue name and both parts are
// re-serialized. Malformed JSON at any nesting level yields (1, nil).
func ParseQueueObject(raw string, queueName string) (int, *QueueObject) {
	var envelope struct {
		Header *string `json:"xqueue_header"`
		Body   *string `json:"xqueue_body"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return ReturnCodeFailure, nil
	}
	if envelope.Header == nil || envelope.Body == nil {
		return ReturnCodeFailure, nil
	}

	// A nested "null" decodes without error but leaves the map nil.
	var header map[string]interface{}
	if err := json.Unmarshal([]byte(*envelope.Header), &header); err != nil || header == nil {
		return ReturnCodeFailure, nil
	}
	header["queue_name"] = queueName

	var body interface{}
	if err := json.Unmarshal([]byte(*envelope.Body), &body); err != nil || body == nil {
		return ReturnCodeFailure, nil
	}

	newHeader, err := json.Marshal(header)
	if err != nil {
		return ReturnCodeFailure, nil
	}
	newBody, err := json.Marshal(body)
	if err != nil {
		return ReturnCodeFailure, nil
	}

	return ReturnCodeSuccess, &QueueObject{
		Header: string(newHeader),
		Body:   string(newBody),
	}
}
