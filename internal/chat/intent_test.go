package chat

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 16, 10, 0, 0, 0, time.Local)

func TestParseRemindWithTimeAndDate(t *testing.T) {
	intent, err := Parse("remind me to stretch at 09:00 on 2025-06-18", testNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if intent.Type != TypeAdd {
		t.Fatalf("expected add intent, got %s", intent.Type)
	}
	if intent.Add.Title != "stretch" {
		t.Fatalf("unexpected title %q", intent.Add.Title)
	}
	if intent.Add.TaskTime != "09:00" || intent.Add.TaskDate != "2025-06-18" {
		t.Fatalf("unexpected schedule: %+v", intent.Add)
	}
}

func TestParseAddRelativeDateWords(t *testing.T) {
	cases := []struct {
		in       string
		wantDate string
		wantTime string
	}{
		{"add pay rent tomorrow", "2025-06-17", ""},
		{"add pay rent today 14:00", "2025-06-16", "14:00"},
		{"remind me to call mom at 18:30", "2025-06-16", "18:30"},
		{"remind me to call mom at 9:00", "2025-06-16", "09:00"},
	}
	for _, tc := range cases {
		intent, err := Parse(tc.in, testNow)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if intent.Add.Title != "pay rent" && intent.Add.Title != "call mom" {
			t.Fatalf("parse %q: unexpected title %q", tc.in, intent.Add.Title)
		}
		if intent.Add.TaskDate != tc.wantDate || intent.Add.TaskTime != tc.wantTime {
			t.Fatalf("parse %q: got %+v", tc.in, intent.Add)
		}
	}
}

func TestParseTitleKeptVerbatim(t *testing.T) {
	intent, err := Parse("add Insurance & Risk review at 10:00", testNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if intent.Add.Title != "Insurance & Risk review" {
		t.Fatalf("title mangled: %q", intent.Add.Title)
	}
}

func TestParseShow(t *testing.T) {
	intent, err := Parse("show tasks on 2025-06-20", testNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if intent.Type != TypeShow || intent.Show.TaskDate != "2025-06-20" {
		t.Fatalf("unexpected intent: %+v", intent)
	}

	intent, err = Parse("show tasks", testNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if intent.Show.TaskDate != "2025-06-16" {
		t.Fatalf("expected today default, got %q", intent.Show.TaskDate)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in   string
		code ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"   ", ErrCodeEmptyInput},
		{"what is the weather", ErrCodeUnknownIntent},
		{"add ", ErrCodeInvalidArgument},
		{"show tasks on someday", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in, testNow)
		var ie *IntentError
		if !errors.As(err, &ie) || ie.Code != tc.code {
			t.Fatalf("parse %q: expected code %s, got %v", tc.in, tc.code, err)
		}
	}
}

func TestRespondDispatchesAdd(t *testing.T) {
	called := false
	res, err := Respond("add water plants at 08:00", testNow, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "water plants" {
				t.Fatalf("unexpected title %q", a.Title)
			}
			return Result{Reply: "done"}, nil
		},
	})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !called || res.Reply != "done" {
		t.Fatalf("dispatch failed: called=%v res=%+v", called, res)
	}
}

func TestRespondFallbackReply(t *testing.T) {
	res, err := Respond("sing me a song", testNow, Handlers{})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if res.Reply == "" {
		t.Fatal("expected fallback reply")
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	intent, err := Parse("show tasks", testNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Execute(intent, Handlers{})
	var ie *IntentError
	if !errors.As(err, &ie) || ie.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler missing, got %v", err)
	}
}
