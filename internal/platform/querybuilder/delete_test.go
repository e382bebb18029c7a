package querybuilder

import "testing"

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("users").
		Where(Eq("id", int64(7))).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM users WHERE id = $1 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("users").ToSQL(); err == nil {
		t.Fatal("delete without conditions should fail")
	}
}
