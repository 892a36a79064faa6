package arcmirror_test

import (
	"testing"

	"github.com/arcmirror/arcmirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceInfo(t *testing.T) {
	t.Parallel()

	t.Run("map server document", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{
			"currentVersion": 10.91,
			"serviceDescription": "Wildfire hazard potential classes.",
			"mapName": "WHP2023",
			"capabilities": "Map,Query,Data",
			"documentInfo": {
				"Title": "Wildfire Hazard Potential 2023",
				"Keywords": "wildfire,hazard,raster"
			},
			"layers": [
				{
					"id": 0,
					"name": "WHP Classes",
					"defaultVisibility": true,
					"minScale": 0,
					"maxScale": 0,
					"type": "Raster Layer"
				}
			]
		}`)

		info, err := arcmirror.ParseServiceInfo(data)
		require.NoError(t, err)

		assert.Equal(t, "WHP2023", info.MapName)
		assert.Equal(t, "Map,Query,Data", info.Capabilities)
		require.Len(t, info.Layers, 1)
		assert.Equal(t, "WHP Classes", info.Layers[0].Name)
		assert.True(t, info.Layers[0].DefaultVisibility)
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()

		_, err := arcmirror.ParseServiceInfo([]byte("not json"))
		require.Error(t, err)
		assert.Equal(t, arcmirror.EINVALID, arcmirror.ErrorCode(err))
	})
}

func TestServiceInfo_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info arcmirror.ServiceInfo
		want string
	}{
		{
			name: "map name preferred",
			info: arcmirror.ServiceInfo{
				MapName:      "Fires",
				DocumentInfo: &arcmirror.DocumentInfo{Title: "Fire Occurrence"},
			},
			want: "Fires",
		},
		{
			name: "document title fallback",
			info: arcmirror.ServiceInfo{
				DocumentInfo: &arcmirror.DocumentInfo{Title: "Fire Occurrence"},
			},
			want: "Fire Occurrence",
		},
		{
			name: "nothing available",
			info: arcmirror.ServiceInfo{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.info.Title())
		})
	}
}

func TestServiceInfo_Summary(t *testing.T) {
	t.Parallel()

	info := arcmirror.ServiceInfo{
		ServiceDescription: "service description",
		DocumentInfo:       &arcmirror.DocumentInfo{Comments: "comments"},
	}
	assert.Equal(t, "service description", info.Summary())

	info.Description = "long description"
	assert.Equal(t, "long description", info.Summary())
}

func TestServiceInfo_Keywords(t *testing.T) {
	t.Parallel()

	t.Run("normalizes and dedupes", func(t *testing.T) {
		t.Parallel()

		info := arcmirror.ServiceInfo{
			DocumentInfo: &arcmirror.DocumentInfo{
				Keywords: "Wildfire, hazard , WILDFIRE,, raster",
			},
		}
		assert.Equal(t, []string{"wildfire", "hazard", "raster"}, info.Keywords())
	})

	t.Run("no document info", func(t *testing.T) {
		t.Parallel()

		info := arcmirror.ServiceInfo{}
		assert.Nil(t, info.Keywords())
	})
}
