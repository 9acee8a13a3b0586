package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAnyUser_TrialOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want UserKind
	}{
		{
			name: "current_account",
			body: `{"id":"usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469","displayName":"Alice","username":"alice","emailVerified":true,"friendKey":"k","isFriend":true}`,
			want: KindCurrentAccount,
		},
		{
			name: "friend",
			body: `{"id":"usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469","displayName":"Bob","friendKey":"abc","isFriend":true}`,
			want: KindFriend,
		},
		{
			name: "friend_key_without_friendship",
			body: `{"id":"usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469","displayName":"Carol","friendKey":"abc","isFriend":false}`,
			want: KindUser,
		},
		{
			name: "empty_friend_key",
			body: `{"id":"usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469","displayName":"Dave","friendKey":"","isFriend":true}`,
			want: KindUser,
		},
		{
			name: "username_without_email_verified",
			body: `{"id":"usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469","displayName":"Eve","username":"eve"}`,
			want: KindUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var user AnyUser
			if err := json.Unmarshal([]byte(tt.body), &user); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if user.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", user.Kind(), tt.want)
			}
			if user.Profile().ID.String() != "usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469" {
				t.Errorf("Profile().ID = %q", user.Profile().ID)
			}
		})
	}
}

func TestAnyUser_Accessors(t *testing.T) {
	var user AnyUser
	body := `{"id":"usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469","displayName":"Bob","friendKey":"abc","isFriend":true,"last_login":""}`
	if err := json.Unmarshal([]byte(body), &user); err != nil {
		t.Fatal(err)
	}

	friend, err := user.Friend()
	if err != nil {
		t.Fatalf("Friend() error = %v", err)
	}
	if friend.LastLogin.Valid {
		t.Error("empty last_login should be absent")
	}
	if _, err := user.User(); !errors.Is(err, ErrUnexpectedShape) {
		t.Errorf("User() error = %v, want ErrUnexpectedShape", err)
	}
	if _, err := user.Account(); !errors.Is(err, ErrUnexpectedShape) {
		t.Errorf("Account() error = %v, want ErrUnexpectedShape", err)
	}
}

func TestAnyUser_NoMatch(t *testing.T) {
	var user AnyUser
	err := json.Unmarshal([]byte(`{"displayName":"nobody"}`), &user)

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Unmarshal() error = %v, want ShapeError", err)
	}
}

func TestUser_SentinelLocations(t *testing.T) {
	body := `{
		"id": "usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469",
		"displayName": "Frank",
		"worldId": "private",
		"instanceId": "offline",
		"last_activity": "none",
		"last_login": "2023-12-24T18:00:00Z"
	}`

	var user User
	if err := json.Unmarshal([]byte(body), &user); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !user.WorldID.Private {
		t.Error("worldId private sentinel not decoded")
	}
	if !user.InstanceID.Offline {
		t.Error("instanceId offline sentinel not decoded")
	}
	if user.LastActivity.Valid {
		t.Error(`"none" last_activity should be absent`)
	}
	if !user.LastLogin.Valid || user.LastLogin.Time.Year() != 2023 {
		t.Errorf("LastLogin = %+v", user.LastLogin)
	}
}

func TestUser_RequiresIdentity(t *testing.T) {
	var users []User
	err := json.Unmarshal([]byte(`[{"requiresTwoFactorAuth":["totp"]}]`), &users)
	if err == nil {
		t.Fatal("a challenge must not decode as a user list")
	}
}
