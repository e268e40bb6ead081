package mockapi

import "encoding/json"

// SampleRecords returns the records served by -demo, using the boolean
// gender encoding.
func SampleRecords() []Record {
	return []Record{
		{FName: "Ann", LName: "Lee", Phone: json.RawMessage(`5551234`), Gender: json.RawMessage(`false`), Birthdate: "2000-01-01"},
		{FName: "Bob", LName: "Stone", Phone: json.RawMessage(`5559876`), Gender: json.RawMessage(`true`), Birthdate: "1998-07-14"},
		{FName: "Cleo", LName: "Park", Phone: json.RawMessage(`5550042`), Gender: json.RawMessage(`false`), Birthdate: "2001-11-30"},
		{FName: "Dev", LName: "Rao", Phone: json.RawMessage(`5553311`), Gender: json.RawMessage(`true`), Birthdate: "1999-03-05"},
	}
}
