package model

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ListStatus
		want     bool
	}{
		{StatusPlanning, StatusStaging, true},
		{StatusStaging, StatusPlanning, true},
		{StatusInstalled, StatusUnstaged, true},
		{StatusPlanning, StatusInstalled, false},
		{StatusStaging, StatusInstalled, false},
		{StatusStaging, StatusUnstaged, false},
		{StatusUnstaged, StatusInstalled, false},
		{StatusUnstaged, StatusPlanning, false},
		{StatusInstalled, StatusPlanning, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestListCollection(t *testing.T) {
	pull := &List{ListType: TypePullList}
	if got := pull.Collection(); got != CollectionPullLists {
		t.Fatalf("pull list collection = %s", got)
	}
	installed := &List{ListType: TypeInstalledList}
	if got := installed.Collection(); got != CollectionInstalledLists {
		t.Fatalf("installed list collection = %s", got)
	}
}
