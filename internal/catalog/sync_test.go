package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ganttview/internal/msproject"
)

func TestSync(t *testing.T) {
	libDir, store, db := watcherTestEnv(t)
	logger := quietLogger()

	_ = os.WriteFile(filepath.Join(libDir, "good.xml"), []byte(msproject.Sample), 0o644)
	_ = os.WriteFile(filepath.Join(libDir, "broken.xml"), []byte("<Project><Tasks>"), 0o644)

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	p, err := db.GetProject("good.xml")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if p.Name != "Warehouse Rollout" || p.TaskCount != 11 {
		t.Errorf("project = %+v", p)
	}
	if p.RangeStart == nil || p.RangeEnd == nil {
		t.Error("range not stored for dated project")
	}
	if cs, _ := db.GetChecksum("broken.xml"); cs != "" {
		t.Error("unparseable file should not be cataloged")
	}

	_ = os.Remove(filepath.Join(libDir, "good.xml"))
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if cs, _ := db.GetChecksum("good.xml"); cs != "" {
		t.Error("stale entry not removed")
	}
}

func TestRows_UndatedProjectHasNoRange(t *testing.T) {
	p, err := msproject.Parse([]byte(`<Project><Name>Bare</Name><Tasks>
		<Task><UID>1</UID><ID>1</ID><Name>Someday</Name></Task></Tasks></Project>`))
	if err != nil {
		t.Fatal(err)
	}
	row, tasks := Rows("bare.xml", "sum", p)
	if row.RangeStart != nil || row.RangeEnd != nil {
		t.Errorf("range = %v..%v, want none", row.RangeStart, row.RangeEnd)
	}
	if len(tasks) != 1 || tasks[0].Seq == nil || *tasks[0].Seq != 1 || tasks[0].Level != 1 {
		t.Errorf("tasks = %+v", tasks)
	}
}
