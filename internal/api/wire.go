package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"recorddeck/internal/jsonutil"
	"recorddeck/internal/record"
)

// GenderCodec maps gender tags to and from the API's representation.
// With AsBool set, Set[0] is written as true and Set[1] as false, which is
// what the original API stores. Decoding accepts either form.
type GenderCodec struct {
	Set    record.GenderSet
	AsBool bool
}

// wireRecord is a record as returned by GET. id, phone and gender are kept
// raw because servers disagree on their JSON types.
type wireRecord struct {
	ID        json.RawMessage `json:"id"`
	FName     string          `json:"fname"`
	LName     string          `json:"lname"`
	Phone     json.RawMessage `json:"phone"`
	Gender    json.RawMessage `json:"gender"`
	Birthdate string          `json:"birthdate"`
}

// wirePayload is the POST/PUT body.
type wirePayload struct {
	FName     string      `json:"fname"`
	LName     string      `json:"lname"`
	Phone     interface{} `json:"phone"`
	Gender    interface{} `json:"gender"`
	Birthdate string      `json:"birthdate"`
}

// EncodeGender returns the JSON value for g.
func (c GenderCodec) EncodeGender(g record.Gender) (interface{}, error) {
	if !c.AsBool {
		return string(g), nil
	}
	if len(c.Set) != 2 {
		return nil, fmt.Errorf("boolean gender encoding needs 2 options, have %d", len(c.Set))
	}
	switch g {
	case c.Set[0].Tag:
		return true, nil
	case c.Set[1].Tag:
		return false, nil
	}
	return nil, fmt.Errorf("gender %q has no boolean encoding", g)
}

// DecodeGender reads a JSON boolean or string. null decodes to the unset tag.
func (c GenderCodec) DecodeGender(raw json.RawMessage) (record.Gender, error) {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null":
		return "", nil
	case "true", "false":
		if len(c.Set) < 2 {
			return "", fmt.Errorf("boolean gender %s without 2 configured options", s)
		}
		if s == "true" {
			return c.Set[0].Tag, nil
		}
		return c.Set[1].Tag, nil
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", fmt.Errorf("decode gender %s: %w", s, err)
	}
	return record.Gender(tag), nil
}

func (c GenderCodec) decodeRecord(w wireRecord) (record.Record, error) {
	id, err := jsonutil.RawString(w.ID)
	if err != nil {
		return record.Record{}, fmt.Errorf("id: %w", err)
	}
	phone, err := jsonutil.RawString(w.Phone)
	if err != nil {
		return record.Record{}, fmt.Errorf("record %s phone: %w", id, err)
	}
	gender, err := c.DecodeGender(w.Gender)
	if err != nil {
		return record.Record{}, fmt.Errorf("record %s: %w", id, err)
	}
	return record.Record{
		ID: id,
		Fields: record.Fields{
			FirstName: w.FName,
			LastName:  w.LName,
			Phone:     phone,
			Gender:    gender,
			Birthdate: w.Birthdate,
		},
	}, nil
}

// DecodeRecords parses a GET response body.
func (c GenderCodec) DecodeRecords(body []byte) ([]record.Record, error) {
	entries, err := jsonutil.UnmarshalArrayAllowEmpty[wireRecord](body, "decode records")
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(entries))
	for _, w := range entries {
		r, err := c.decodeRecord(w)
		if err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// EncodeFields builds a POST/PUT body.
func (c GenderCodec) EncodeFields(f record.Fields) ([]byte, error) {
	f = f.Normalize()
	gender, err := c.EncodeGender(f.Gender)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wirePayload{
		FName:     f.FirstName,
		LName:     f.LastName,
		Phone:     phoneValue(f.Phone),
		Gender:    gender,
		Birthdate: f.Birthdate,
	})
}

// phoneValue sends canonical integers as JSON numbers and anything else,
// including digits with a leading zero, as a string.
func phoneValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if len(s) > 1 && s[0] == '0' {
		return s
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		return json.Number(s)
	}
	return s
}
