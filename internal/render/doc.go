// Package render defines the artifact type and the renderer boundary the
// export orchestrator drives. Rasterization itself lives behind the Renderer
// interface; the production implementation shells out to the external
// compositing service.
package render
